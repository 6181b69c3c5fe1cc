package plan

type Type string

const (
	Free    Type = "free"
	Premium Type = "premium"
	King    Type = "king"
)

// PixelGrants kademe başına abonelik başlangıcında/yenilenmesinde verilen pixel miktarı
var PixelGrants = map[Type]int{
	Premium: 60,
	King:    125,
}

// Resolution indirilebilir duvar kağıdı çözünürlükleri
type Resolution string

const (
	Res4K Resolution = "4k"
	Res8K Resolution = "8k"
)

// PixelCosts günlük ücretsiz hak bittiğinde çözünürlük başına pixel maliyeti
var PixelCosts = map[Resolution]int{
	Res4K: 1,
	Res8K: 2,
}

// IsPaid kademenin ücretli olup olmadığını döner
func IsPaid(t Type) bool {
	_, ok := PixelGrants[t]
	return ok
}

// Valid bilinen bir kademe mi kontrol eder
func Valid(t Type) bool {
	return t == Free || IsPaid(t)
}

func ValidResolution(r Resolution) bool {
	_, ok := PixelCosts[r]
	return ok
}
