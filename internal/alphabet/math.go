package alphabet

import "math"

func log2(x float64) float64 { return math.Log(x) / math.Ln2 }
