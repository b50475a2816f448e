package fx

import "testing"

func TestBuildTransformRejectsUnderAndOverSpecification(t *testing.T) {
	t.Parallel()

	ci := buildCurrencyIndex([]string{"eurusd", "gbpusd"})
	under := map[string]Curve{"usdusd": nil, "eurusd": nil}
	if _, err := buildTransform("test", ci, under); err == nil {
		t.Fatalf("expected an underspecification error")
	}

	over := map[string]Curve{
		"usdusd": nil, "eurusd": nil, "gbpusd": nil, "eureur": nil, "gbpgbp": nil, "eurgbp": nil,
	}
	if _, err := buildTransform("test", ci, over); err == nil {
		t.Fatalf("expected an overspecification error")
	}
}

func TestRecursiveChainFindsMultiHopPath(t *testing.T) {
	t.Parallel()

	// currency 0 reaches 3 only via 1 (row) then 3 (row).
	T := [][]int{
		{1, 1, 1, 0},
		{0, 1, 0, 1},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	path, ok := recursiveChain(T, 0, 3)
	if !ok {
		t.Fatalf("expected a path from 0 to 3")
	}
	if len(path) == 0 {
		t.Fatalf("expected a non-empty path")
	}
	last := path[len(path)-1]
	if last.Index != 3 {
		t.Fatalf("last hop should terminate at 3, got %d", last.Index)
	}
}

func TestRecursiveChainNoPath(t *testing.T) {
	t.Parallel()

	T := [][]int{
		{1, 0},
		{0, 1},
	}
	if _, ok := recursiveChain(T, 0, 1); ok {
		t.Fatalf("expected no path between disconnected currencies")
	}
}
