package resource

import "strings"

// Type is the numeric type tag assigned to every resource by the game's
// archive formats. The numeric values are fixed by the on-disk formats
// and must not be renumbered.
type Type uint16

const (
	TypeInvalid Type = 0xFFFF

	TypeBMP Type = 1
	TypeTGA Type = 3
	TypeWAV Type = 4
	TypePLT Type = 6
	TypeINI Type = 7
	TypeTXT Type = 10

	TypeMDL Type = 2002
	TypeNSS Type = 2009
	TypeNCS Type = 2010
	TypeARE Type = 2012
	TypeSET Type = 2013
	TypeIFO Type = 2014
	TypeBIC Type = 2015
	TypeWOK Type = 2016
	Type2DA Type = 2017
	TypeTLK Type = 2018
	TypeTXI Type = 2022
	TypeGIT Type = 2023
	TypeUTI Type = 2025
	TypeUTC Type = 2027
	TypeDLG Type = 2029
	TypeITP Type = 2030
	TypeUTT Type = 2032
	TypeDDS Type = 2033
	TypeUTS Type = 2035
	TypeLTR Type = 2036
	TypeGFF Type = 2037
	TypeFAC Type = 2038
	TypeUTE Type = 2040
	TypeUTD Type = 2042
	TypeUTP Type = 2044
	TypeDFT Type = 2045
	TypeGIC Type = 2046
	TypeGUI Type = 2047
	TypeUTM Type = 2051
	TypeDWK Type = 2052
	TypePWK Type = 2053
	TypeJRL Type = 2056
	TypeUTW Type = 2058
	TypeSSF Type = 2060
	TypeNDB Type = 2064
	TypePTM Type = 2065
	TypePTT Type = 2066

	TypeLYT Type = 3000
	TypeVIS Type = 3001
	TypeRIM Type = 3002
	TypePTH Type = 3003
	TypeLIP Type = 3004
	TypeTPC Type = 3007
	TypeMDX Type = 3008

	TypeMP3 Type = 25014
)

var typeExtensions = map[Type]string{
	TypeBMP: "bmp",
	TypeTGA: "tga",
	TypeWAV: "wav",
	TypePLT: "plt",
	TypeINI: "ini",
	TypeTXT: "txt",
	TypeMDL: "mdl",
	TypeNSS: "nss",
	TypeNCS: "ncs",
	TypeARE: "are",
	TypeSET: "set",
	TypeIFO: "ifo",
	TypeBIC: "bic",
	TypeWOK: "wok",
	Type2DA: "2da",
	TypeTLK: "tlk",
	TypeTXI: "txi",
	TypeGIT: "git",
	TypeUTI: "uti",
	TypeUTC: "utc",
	TypeDLG: "dlg",
	TypeITP: "itp",
	TypeUTT: "utt",
	TypeDDS: "dds",
	TypeUTS: "uts",
	TypeLTR: "ltr",
	TypeGFF: "gff",
	TypeFAC: "fac",
	TypeUTE: "ute",
	TypeUTD: "utd",
	TypeUTP: "utp",
	TypeDFT: "dft",
	TypeGIC: "gic",
	TypeGUI: "gui",
	TypeUTM: "utm",
	TypeDWK: "dwk",
	TypePWK: "pwk",
	TypeJRL: "jrl",
	TypeUTW: "utw",
	TypeSSF: "ssf",
	TypeNDB: "ndb",
	TypePTM: "ptm",
	TypePTT: "ptt",
	TypeLYT: "lyt",
	TypeVIS: "vis",
	TypeRIM: "rim",
	TypePTH: "pth",
	TypeLIP: "lip",
	TypeTPC: "tpc",
	TypeMDX: "mdx",
	TypeMP3: "mp3",
}

var extensionTypes = func() map[string]Type {
	m := make(map[string]Type, len(typeExtensions))
	for t, ext := range typeExtensions {
		m[ext] = t
	}
	return m
}()

// Extension returns the file extension conventionally used for this
// type, without the leading dot, or "" if the tag is unknown.
func (t Type) Extension() string {
	return typeExtensions[t]
}

// Valid reports whether the tag is one this package recognizes.
func (t Type) Valid() bool {
	_, ok := typeExtensions[t]
	return ok
}

func (t Type) String() string {
	if ext, ok := typeExtensions[t]; ok {
		return strings.ToUpper(ext)
	}
	return "INVALID"
}

// TypeFromExtension maps a file extension (with or without the leading
// dot, any case) to its type tag. Returns TypeInvalid for extensions
// that do not correspond to a known resource type.
func TypeFromExtension(ext string) Type {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return TypeInvalid
}
