package distortion

import "testing"

func TestDiagonalIsZero(t *testing.T) {
	for _, kind := range []Kind{SquaredError, AbsoluteError, LogShiftedSquaredError} {
		tbl := New(kind, 10)
		for i := 0; i < 10; i++ {
			if got := tbl.D(i, i); got != 0 {
				t.Errorf("kind %v: D(%d,%d) = %v, want 0", kind, i, i, got)
			}
		}
	}
}

func TestSquaredErrorSymmetric(t *testing.T) {
	tbl := New(SquaredError, 41)
	for i := 0; i < 41; i++ {
		for j := 0; j < 41; j++ {
			if tbl.D(i, j) != tbl.D(j, i) {
				t.Fatalf("D(%d,%d)=%v != D(%d,%d)=%v", i, j, tbl.D(i, j), j, i, tbl.D(j, i))
			}
		}
	}
	if got, want := tbl.D(0, 4), 16.0; got != want {
		t.Errorf("D(0,4) = %v, want %v", got, want)
	}
}

func TestFromMatrixForcesZeroDiagonal(t *testing.T) {
	m := [][]float64{{5, 1}, {1, 5}}
	tbl := FromMatrix(m)
	if tbl.D(0, 0) != 0 || tbl.D(1, 1) != 0 {
		t.Fatal("FromMatrix did not zero the diagonal")
	}
	if tbl.D(0, 1) != 1 {
		t.Errorf("D(0,1) = %v, want 1", tbl.D(0, 1))
	}
}
