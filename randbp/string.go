package randbp

import (
	"math/rand/v2"
)

// Base64Runes are all the runes allowed in standard and url safe base64
// encodings.
//
// This is a common, safe to use set of runes to be used with
// GenerateRandomString.
const Base64Runes = `ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_+/=`

// FilenameRunes are runes safe to use in file and queue names.
const FilenameRunes = `ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_`

// RandomStringArgs defines the args used by GenerateRandomString.
type RandomStringArgs struct {
	// Required. If MaxLength <= MinLength it will cause panic.
	MaxLength int

	// Optional. Default is 0, which means it could generate empty strings.
	// If MinLength < 0 or MinLength >= MaxLength it will cause panic.
	MinLength int

	// Optional. If empty []rune(Base64Runes) will be used instead.
	Runes []rune
}

// GenerateRandomString generates a random string with length
// [MinLength, MaxLength), and all characters limited to Runes.
//
// It uses the math/rand/v2 global PRNG, so it is safe for concurrent use
// but never suitable for security purposes.
func GenerateRandomString(args RandomStringArgs) string {
	runes := args.Runes
	if len(runes) == 0 {
		runes = []rune(Base64Runes)
	}
	n := rand.IntN(args.MaxLength-args.MinLength) + args.MinLength
	ret := make([]rune, n)
	for i := range ret {
		ret[i] = runes[rand.IntN(len(runes))]
	}
	return string(ret)
}
