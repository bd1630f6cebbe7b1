package document

import "strconv"

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
