package game

// Digits splits n into the three digits of a counter display. Values wrap
// at 1000 and negatives show as zero.
func Digits(n int) [3]int {
	if n < 0 {
		n = 0
	}
	n %= 1000
	return [3]int{n / 100, n / 10 % 10, n % 10}
}
