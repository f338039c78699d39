package transliterate

// Devanagari to IAST tables. Consonants are listed without their inherent
// vowel; Transliterate adds "a" unless a vowel sign or virama follows.

const (
	virama      = '्'
	nukta       = '़'
	anusvara    = 'ं'
	visarga     = 'ः'
	candrabindu = 'ँ'
	avagraha    = 'ऽ'
	om          = 'ॐ'
	zwnj        = '\u200c'
	zwj         = '\u200d'
)

var vowels = map[rune]string{
	'अ': "a",
	'आ': "ā",
	'इ': "i",
	'ई': "ī",
	'उ': "u",
	'ऊ': "ū",
	'ऋ': "ṛ",
	'ॠ': "ṝ",
	'ऌ': "ḷ",
	'ॡ': "ḹ",
	'ऍ': "e",
	'ऎ': "e",
	'ए': "e",
	'ऐ': "ai",
	'ऑ': "o",
	'ऒ': "o",
	'ओ': "o",
	'औ': "au",
}

var vowelSigns = map[rune]string{
	'ा': "ā",
	'ि': "i",
	'ी': "ī",
	'ु': "u",
	'ू': "ū",
	'ृ': "ṛ",
	'ॄ': "ṝ",
	'ॢ': "ḷ",
	'ॣ': "ḹ",
	'ॅ': "e",
	'ॆ': "e",
	'े': "e",
	'ै': "ai",
	'ॉ': "o",
	'ॊ': "o",
	'ो': "o",
	'ौ': "au",
}

var consonants = map[rune]string{
	'क': "k",
	'ख': "kh",
	'ग': "g",
	'घ': "gh",
	'ङ': "ṅ",
	'च': "c",
	'छ': "ch",
	'ज': "j",
	'झ': "jh",
	'ञ': "ñ",
	'ट': "ṭ",
	'ठ': "ṭh",
	'ड': "ḍ",
	'ढ': "ḍh",
	'ण': "ṇ",
	'त': "t",
	'थ': "th",
	'द': "d",
	'ध': "dh",
	'न': "n",
	'प': "p",
	'फ': "ph",
	'ब': "b",
	'भ': "bh",
	'म': "m",
	'य': "y",
	'र': "r",
	'ल': "l",
	'ळ': "ḻ",
	'व': "v",
	'श': "ś",
	'ष': "ṣ",
	'स': "s",
	'ह': "h",
}

// nuktaConsonants is keyed by the base consonant. NFC keeps nukta forms
// decomposed, so the precomposed code points never reach the lookup.
var nuktaConsonants = map[rune]string{
	'क': "q",
	'ख': "ḵh",
	'ग': "ġ",
	'ज': "z",
	'ड': "ṛ",
	'ढ': "ṛh",
	'फ': "f",
	'य': "ẏ",
}

var marks = map[rune]string{
	anusvara:    "ṃ",
	visarga:     "ḥ",
	candrabindu: "m̐",
	avagraha:    "'",
	om:          "oṃ",
	'।':         "|",
	'॥':         "||",
	'०':         "0",
	'१':         "1",
	'२':         "2",
	'३':         "3",
	'४':         "4",
	'५':         "5",
	'६':         "6",
	'७':         "7",
	'८':         "8",
	'९':         "9",
}
