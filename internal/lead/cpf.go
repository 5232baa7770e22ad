package lead

// ValidCPF reports whether s is 11 digits with correct mod-11 check
// digits. Repeated-digit numbers such as 11111111111 are rejected,
// matching what the importer accepts.
func ValidCPF(s string) bool {
	if len(s) != 11 {
		return false
	}

	var digits [11]int
	same := true
	for i := 0; i < 11; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
		if digits[i] != digits[0] {
			same = false
		}
	}
	if same {
		return false
	}

	first, second := checkDigits([9]int(digits[:9]))
	return digits[9] == first && digits[10] == second
}

// checkDigits computes the two CPF verification digits for a 9-digit base.
func checkDigits(base [9]int) (int, int) {
	sum := 0
	for i, d := range base {
		sum += d * (10 - i)
	}
	first := mod11(sum)

	sum = 0
	for i, d := range base {
		sum += d * (11 - i)
	}
	sum += first * 2
	return first, mod11(sum)
}

func mod11(sum int) int {
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}
