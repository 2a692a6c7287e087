package task

import "testing"

func TestRegistryReplaceKeepsDaemonOrder(t *testing.T) {
	r := NewRegistry()
	r.Replace([]Snapshot{
		{GID: "c", Name: "third"},
		{GID: "a", Name: "first"},
		{GID: "b", Name: "second"},
	})

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(all))
	}
	for i, gid := range []string{"c", "a", "b"} {
		if all[i].GID != gid {
			t.Fatalf("position %d: got gid %q, want %q", i, all[i].GID, gid)
		}
	}
}

func TestRegistryReplaceSwapsWholesale(t *testing.T) {
	r := NewRegistry()
	r.Replace([]Snapshot{{GID: "a"}, {GID: "b"}})
	r.Replace([]Snapshot{{GID: "c"}})

	if r.Len() != 1 {
		t.Fatalf("expected 1 snapshot after replace, got %d", r.Len())
	}
	if _, ok := r.Get("a"); ok {
		t.Fatal("gid from previous refresh still present")
	}
	if _, ok := r.Get("c"); !ok {
		t.Fatal("gid from latest refresh missing")
	}
}

func TestRegistryReplaceSkipsDuplicateGIDs(t *testing.T) {
	r := NewRegistry()
	r.Replace([]Snapshot{
		{GID: "a", Name: "kept"},
		{GID: "a", Name: "dropped"},
	})

	if r.Len() != 1 {
		t.Fatalf("expected 1 snapshot, got %d", r.Len())
	}
	s, _ := r.Get("a")
	if s.Name != "kept" {
		t.Fatalf("expected first occurrence to win, got %q", s.Name)
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Replace([]Snapshot{{GID: "a", Name: "original"}})

	all := r.All()
	all[0].Name = "mutated"

	s, _ := r.Get("a")
	if s.Name != "original" {
		t.Fatalf("registry contents changed through returned slice: %q", s.Name)
	}
}

func TestRegistryUpdatedAt(t *testing.T) {
	r := NewRegistry()
	if !r.UpdatedAt().IsZero() {
		t.Fatal("expected zero time before first refresh")
	}

	r.Replace(nil)
	first := r.UpdatedAt()
	if first.IsZero() {
		t.Fatal("expected refresh to set the timestamp")
	}

	r.Replace(nil)
	if r.UpdatedAt().Before(first) {
		t.Fatal("timestamp went backwards")
	}
}
