package linguistic

// Indonesian function words plus the small-talk words that carry no symptom
// meaning. Symptom vocabulary (sering, tinggi, sakit) must never appear here.
var indonesianStopwords = []string{
	"ada", "adalah", "agak", "agar", "akan", "aku", "anda", "apa", "apakah",
	"atau", "bagaimana", "bahwa", "banyak", "baru", "begitu", "belum",
	"biasa", "bisa", "boleh", "cuma", "dalam", "dan", "dari", "dengan", "di",
	"dia", "dong", "gimana", "hai", "halo", "hanya", "harus", "hei", "hello",
	"hi", "ini", "itu", "jadi", "jika", "juga", "kabar", "kalau", "kami",
	"kamu", "karena", "kasih", "ke", "kemudian", "kita", "kok", "lagi",
	"lain", "lalu", "makasih", "mau", "masih", "mengalami", "merasa",
	"mereka", "mungkin", "namun", "nih", "oleh", "pada", "para", "pun",
	"saat", "saja", "sama", "sangat", "saya", "sebagai", "sedang", "sedikit",
	"sejak", "sekali", "selalu", "semua", "sih", "sudah", "supaya", "tapi",
	"telah", "tentang", "terasa", "terhadap", "terima", "tetapi", "tidak",
	"untuk", "ya", "yang",
}

func newStopwordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
