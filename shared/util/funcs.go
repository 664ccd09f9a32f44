package util

// Lerp realiza interpolação linear entre dois floats.
func Lerp(start, end, amount float32) float32 {
	return start + amount*(end-start)
}

// Abs retorna o valor absoluto de um int.
func Abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Max retorna o maior de dois int.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min retorna o menor de dois int.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FloorDiv divide arredondando para -infinito (a divisão do Go trunca para zero).
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
