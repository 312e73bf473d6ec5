//go:build unix

package store

import (
	"os"
	"syscall"
)

// lockFile places an advisory flock(2) on the account file: exclusive
// for read-write handles, shared for read-only ones. The call blocks
// until the lock is available, which serializes read-modify-write
// cycles across processes.
func lockFile(f *os.File, mode Mode) error {
	how := syscall.LOCK_SH
	if mode == ReadWrite {
		how = syscall.LOCK_EX
	}
	return syscall.Flock(int(f.Fd()), how)
}

func unlockFile(f *os.File) {
	syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
