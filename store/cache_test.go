package store

import "testing"

func TestProgramCachePutGetDelete(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	var hash [28]byte
	hash[0] = 0xaa
	payload := []byte{0x01, 0x02, 0x03}

	if _, ok, err := c.Get(hash); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	if err := c.Put(hash, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(hash)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("got %x want %x", got, payload)
	}

	if err := c.Delete(hash); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := c.Get(hash); err != nil || ok {
		t.Fatalf("Get after Delete: ok=%v err=%v", ok, err)
	}
}

func TestProgramCacheReopenPersists(t *testing.T) {
	dir := t.TempDir()
	var hash [28]byte
	hash[3] = 0x42

	c1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c1.Put(hash, []byte{0x99}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	t.Cleanup(func() { _ = c2.Close() })
	got, ok, err := c2.Get(hash)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != 0x99 {
		t.Fatalf("got %x want [0x99]", got)
	}
}
