package mathx

// Hash32 mistura uma entrada de 32 bits em uma saída bem distribuída
// (finalizador no estilo Murmur). Estável entre versões: não usa rand.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 retorna um hash estável para coordenadas 2D inteiras + seed.
func Hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	return Hash32(h)
}

// Bucket mapeia (x, z) deterministicamente para um índice em [0, n).
func Bucket(seed uint32, x, z int32, n int) int {
	if n <= 1 {
		return 0
	}
	return int(Hash2(seed, x, z) % uint32(n))
}
