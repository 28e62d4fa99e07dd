package testutil

import (
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/trinity-method/trinity-sdk/pkg/types"
)

// Op names a filesystem operation a Fault can match.
type Op string

const (
	OpStat      Op = "stat"
	OpReadFile  Op = "readfile"
	OpWriteFile Op = "writefile"
	OpMkdirAll  Op = "mkdirall"
	OpReadDir   Op = "readdir"
	OpRemove    Op = "remove"
	OpRemoveAll Op = "removeall"
	OpRename    Op = "rename"
	OpSymlink   Op = "symlink"
)

// Fault fails operations of kind Op whose path contains PathContains.
// Times bounds how often it fires; zero means every time.
type Fault struct {
	Op           Op
	PathContains string
	Err          error
	Times        int

	hits int
}

// Hits returns how many times the fault fired.
func (f *Fault) Hits() int {
	return f.hits
}

// FaultFS wraps a types.FS and injects errors and latency.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults []*Fault
	delays map[string]time.Duration
}

// NewFaultFS wraps base.
func NewFaultFS(base types.FS) *FaultFS {
	return &FaultFS{FS: base, delays: make(map[string]time.Duration)}
}

// Fail registers a fault firing on every matching operation.
func (f *FaultFS) Fail(op Op, pathContains string, err error) *Fault {
	return f.add(&Fault{Op: op, PathContains: pathContains, Err: err})
}

// FailOnce registers a fault firing on the first matching operation only.
func (f *FaultFS) FailOnce(op Op, pathContains string, err error) *Fault {
	return f.add(&Fault{Op: op, PathContains: pathContains, Err: err, Times: 1})
}

func (f *FaultFS) add(fault *Fault) *Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = append(f.faults, fault)
	return fault
}

// Delay slows every write whose path contains pathContains.
func (f *FaultFS) Delay(pathContains string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[pathContains] = d
}

// Clear removes all faults and delays.
func (f *FaultFS) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults = nil
	f.delays = make(map[string]time.Duration)
}

func (f *FaultFS) check(op Op, path string) error {
	f.mu.Lock()
	var delay time.Duration
	if op == OpWriteFile {
		for match, d := range f.delays {
			if strings.Contains(path, match) && d > delay {
				delay = d
			}
		}
	}
	var err error
	for _, fault := range f.faults {
		if fault.Op != op || !strings.Contains(path, fault.PathContains) {
			continue
		}
		if fault.Times > 0 && fault.hits >= fault.Times {
			continue
		}
		fault.hits++
		err = fault.Err
		break
	}
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, err
	}
	return f.FS.ReadFile(name)
}

func (f *FaultFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return err
	}
	return f.FS.WriteFile(name, data, perm)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return err
	}
	return f.FS.RemoveAll(path)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}
