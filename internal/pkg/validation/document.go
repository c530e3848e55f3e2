// Package validation holds Brazilian document checks used by request
// validation.
package validation

func digits(s string) []int {
	out := make([]int, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, int(r-'0'))
		}
	}
	return out
}

func allSame(d []int) bool {
	for _, x := range d[1:] {
		if x != d[0] {
			return false
		}
	}
	return true
}

// IsValidCPF checks the length and both check digits of a CPF. Punctuation
// is ignored.
func IsValidCPF(cpf string) bool {
	d := digits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}
	for _, n := range []int{9, 10} {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := sum * 10 % 11
		if check == 10 {
			check = 0
		}
		if check != d[n] {
			return false
		}
	}
	return true
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// IsValidCNPJ checks the length and both check digits of a CNPJ.
// Punctuation is ignored.
func IsValidCNPJ(cnpj string) bool {
	d := digits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}
	for _, n := range []int{12, 13} {
		weights := cnpjWeights[13-n:]
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * weights[i]
		}
		check := 0
		if r := sum % 11; r >= 2 {
			check = 11 - r
		}
		if check != d[n] {
			return false
		}
	}
	return true
}
