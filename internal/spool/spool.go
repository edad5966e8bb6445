package spool

import (
  "errors"
  "fmt"
  "os"
  "path/filepath"
  "sort"
  "strings"
  "sync"
  "time"
)

var ErrFull = errors.New("spool: full")

const prefix = "batch_"

// Spool keeps batches as files in one directory, oldest first, and evicts the
// oldest batches to stay under maxBytes.
type Spool struct {
  dir      string
  maxBytes int64
  mu       sync.Mutex
  seq      uint64
  evicted  int
}

func New(dir string, maxBytes int64) *Spool {
  return &Spool{dir: dir, maxBytes: maxBytes}
}

func (s *Spool) Ensure() error {
  return os.MkdirAll(s.dir, 0o755)
}

func (s *Spool) Enqueue(batch []byte) error {
  if len(batch) == 0 {
    return nil
  }
  s.mu.Lock()
  defer s.mu.Unlock()

  if err := s.ensureCap(int64(len(batch))); err != nil {
    return err
  }

  s.seq++
  name := fmt.Sprintf("%s%019d_%06d.json", prefix, time.Now().UnixNano(), s.seq%1000000)
  return os.WriteFile(filepath.Join(s.dir, name), batch, 0o600)
}

// Peek returns every batch, oldest first, leaving them in place.
func (s *Spool) Peek() ([][]byte, error) {
  s.mu.Lock()
  defer s.mu.Unlock()

  files, err := s.files()
  if err != nil {
    return nil, err
  }
  out := make([][]byte, 0, len(files))
  for _, name := range files {
    data, err := os.ReadFile(filepath.Join(s.dir, name))
    if err != nil {
      return nil, err
    }
    out = append(out, data)
  }
  return out, nil
}

func (s *Spool) SizeBytes() int64 {
  s.mu.Lock()
  defer s.mu.Unlock()
  return s.size()
}

func (s *Spool) Count() int {
  s.mu.Lock()
  defer s.mu.Unlock()
  files, err := s.files()
  if err != nil {
    return 0
  }
  return len(files)
}

// Evicted is the number of batches dropped to make room.
func (s *Spool) Evicted() int {
  s.mu.Lock()
  defer s.mu.Unlock()
  return s.evicted
}

func (s *Spool) files() ([]string, error) {
  entries, err := os.ReadDir(s.dir)
  if err != nil {
    return nil, err
  }
  files := make([]string, 0, len(entries))
  for _, e := range entries {
    if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
      continue
    }
    files = append(files, e.Name())
  }
  sort.Strings(files)
  return files, nil
}

func (s *Spool) size() int64 {
  files, err := s.files()
  if err != nil {
    return 0
  }
  var total int64
  for _, name := range files {
    info, err := os.Stat(filepath.Join(s.dir, name))
    if err != nil {
      continue
    }
    total += info.Size()
  }
  return total
}

func (s *Spool) ensureCap(nextSize int64) error {
  if nextSize > s.maxBytes {
    return ErrFull
  }
  cur := s.size()
  if cur+nextSize <= s.maxBytes {
    return nil
  }
  files, err := s.files()
  if err != nil {
    return err
  }
  for _, name := range files {
    if cur+nextSize <= s.maxBytes {
      break
    }
    path := filepath.Join(s.dir, name)
    info, err := os.Stat(path)
    if err != nil {
      continue
    }
    if err := os.Remove(path); err != nil {
      continue
    }
    cur -= info.Size()
    s.evicted++
  }
  if cur+nextSize > s.maxBytes {
    return ErrFull
  }
  return nil
}
