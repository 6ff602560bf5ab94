package energy

import "strings"

// SizeClass is a coarse breed size bucket used for serving-size hints.
type SizeClass string

const (
	SizeToySmall   SizeClass = "toy_small"
	SizeMedium     SizeClass = "medium"
	SizeLargeGiant SizeClass = "large_giant"
	SizeUnknown    SizeClass = "unknown"
)

// breedSizes is intentionally coarse; breeds not listed here resolve to
// SizeUnknown, which is fine for planning purposes.
var breedSizes = map[string]SizeClass{
	"chihuahua":                   SizeToySmall,
	"pomeranian":                  SizeToySmall,
	"yorkshire terrier":           SizeToySmall,
	"maltese":                     SizeToySmall,
	"toy poodle":                  SizeToySmall,
	"shih tzu":                    SizeToySmall,
	"papillon":                    SizeToySmall,
	"pug":                         SizeToySmall,
	"cavalier king charles spaniel": SizeToySmall,
	"bichon frise":                SizeToySmall,
	"boston terrier":              SizeToySmall,
	"dachshund":                   SizeToySmall,
	"jack russell terrier":        SizeToySmall,
	"miniature schnauzer":         SizeToySmall,
	"west highland white terrier": SizeToySmall,
	"whippet":                     SizeToySmall,
	"pembroke welsh corgi":        SizeToySmall,
	"havanese":                    SizeToySmall,
	"beagle":                      SizeMedium,
	"french bulldog":              SizeMedium,
	"bulldog":                     SizeMedium,
	"border collie":               SizeMedium,
	"australian shepherd":         SizeMedium,
	"shiba inu":                   SizeMedium,
	"korean jindo":                SizeMedium,
	"staffordshire bull terrier":  SizeMedium,
	"vizsla":                      SizeMedium,
	"dalmatian":                   SizeMedium,
	"brittany":                    SizeMedium,
	"labrador retriever":          SizeLargeGiant,
	"golden retriever":            SizeLargeGiant,
	"german shepherd":             SizeLargeGiant,
	"siberian husky":              SizeLargeGiant,
	"doberman":                    SizeLargeGiant,
	"rottweiler":                  SizeLargeGiant,
	"boxer":                       SizeLargeGiant,
	"weimaraner":                  SizeLargeGiant,
	"belgian malinois":            SizeLargeGiant,
	"rhodesian ridgeback":         SizeLargeGiant,
	"standard poodle":             SizeLargeGiant,
	"great dane":                  SizeLargeGiant,
	"mastiff":                     SizeLargeGiant,
	"saint bernard":               SizeLargeGiant,
	"newfoundland":                SizeLargeGiant,
	"bernese mountain dog":        SizeLargeGiant,
	"great pyrenees":              SizeLargeGiant,
	"irish wolfhound":             SizeLargeGiant,
}

// SizeForBreed resolves a breed name (case-insensitive) to its size class.
func SizeForBreed(breed string) SizeClass {
	if sc, ok := breedSizes[strings.ToLower(strings.TrimSpace(breed))]; ok {
		return sc
	}
	return SizeUnknown
}
