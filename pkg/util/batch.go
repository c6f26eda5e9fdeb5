package util

// Chunks 将切片按固定大小拆分，最后一块可能不足 size。size<=0 时整体作为一块。
// 每块都是独立的副本，修改不会影响原切片。
func Chunks[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size > len(items) {
		size = len(items)
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > 0 {
		n := min(size, len(items))
		out = append(out, append([]T(nil), items[:n]...))
		items = items[n:]
	}
	return out
}
