package affinity

import "testing"

func TestEqual(t *testing.T) {
	a := New(1, 4, 0, 2)
	b := New(1, 4, 0, 2)
	c := New(2, 4, 0, 2)

	if !a.Equal(b) {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	if a.Equal(c) {
		t.Fatalf("expected %v to differ from %v", a, c)
	}
}

func TestShardIndex(t *testing.T) {
	cases := []struct {
		proc, shards, want int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 0},
		{5, 4, 1},
		{7, 2, 1},
	}
	for _, tc := range cases {
		a := New(uint32(tc.proc), 8, 0, 1)
		if got := ShardIndex(a, tc.shards); got != tc.want {
			t.Errorf("ShardIndex(proc=%d, shards=%d) = %d, want %d", tc.proc, tc.shards, got, tc.want)
		}
	}
}

func TestShardIndexCollision(t *testing.T) {
	// Distinct affinities may map to the same shard when numShards < processorCount.
	a0 := New(0, 8, 0, 1)
	a4 := New(4, 8, 0, 1)
	if ShardIndex(a0, 4) != ShardIndex(a4, 4) {
		t.Fatalf("expected processor 0 and 4 to collide on 4 shards")
	}
}

func TestShardIndexPanicsOnZeroShards(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for numShards <= 0")
		}
	}()
	ShardIndex(New(0, 1, 0, 1), 0)
}

func TestUniform(t *testing.T) {
	affs := Uniform(4)
	if len(affs) != 4 {
		t.Fatalf("want 4 affinities, got %d", len(affs))
	}
	for i, a := range affs {
		if int(a.ProcessorIndex) != i || a.ProcessorCount != 4 {
			t.Errorf("affs[%d] = %+v", i, a)
		}
	}
}
