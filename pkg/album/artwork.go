package album

import "regexp"

var (
	thumbHost    = regexp.MustCompile(`^https://is\d-ssl\.mzstatic\.com/image/thumb/`)
	thumbSegment = regexp.MustCompile(`/\d+x\d+bb\.(?:jpg|jpeg|png|webp)$`)
)

// originHost serves full-size, uncompressed Apple artwork.
const originHost = "https://a5.mzstatic.com/us/r1000/0/"

// NormalizeArtworkURL rewrites an Apple thumbnail URL such as
//
//	https://is1-ssl.mzstatic.com/image/thumb/Music/v4/ab/cd/ef/source/600x600bb.jpg
//
// to the full-size original
//
//	https://a5.mzstatic.com/us/r1000/0/Music/v4/ab/cd/ef/source
//
// Any other URL is returned unchanged.
func NormalizeArtworkURL(raw string) string {
	loc := thumbHost.FindStringIndex(raw)
	if loc == nil {
		return raw
	}
	out := originHost + raw[loc[1]:]
	return thumbSegment.ReplaceAllString(out, "")
}
