package domain

import "regexp"

// Platform describes what DetectPlatform recognized in a pasted URL.
type Platform struct {
	Source    Source
	Name      string
	VideoID   string
	Thumbnail string
	EmbedURL  string
}

var (
	youtubeRe   = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)
	youtubeIDRe = regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`)
	vimeoRe     = regexp.MustCompile(`vimeo\.com/(\d+)`)
	instagramRe = regexp.MustCompile(`instagram\.com/(?:p|reel|reels|tv)/([A-Za-z0-9_-]+)`)
	httpRe      = regexp.MustCompile(`^https?://.+`)
)

// ExtractYouTubeID pulls the 11-character video ID out of any of the
// usual YouTube URL shapes, or returns "" when none matches. A bare ID
// is accepted as-is.
func ExtractYouTubeID(url string) string {
	if url == "" {
		return ""
	}
	if m := youtubeRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := youtubeIDRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// DetectPlatform classifies a user-supplied URL into a hosting platform
// and derives the embed URL and, where the platform allows it, a
// thumbnail. Returns nil for input that is not an http(s) URL at all.
func DetectPlatform(url string) *Platform {
	if url == "" {
		return nil
	}
	if id := ExtractYouTubeID(url); id != "" {
		return &Platform{
			Source:    SourceYouTube,
			Name:      "YouTube",
			VideoID:   id,
			Thumbnail: "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg",
			EmbedURL:  "https://www.youtube.com/embed/" + id,
		}
	}
	if m := vimeoRe.FindStringSubmatch(url); m != nil {
		return &Platform{
			Source:   SourceVimeo,
			Name:     "Vimeo",
			VideoID:  m[1],
			EmbedURL: "https://player.vimeo.com/video/" + m[1],
		}
	}
	if m := instagramRe.FindStringSubmatch(url); m != nil {
		return &Platform{
			Source:   SourceInstagram,
			Name:     "Instagram",
			VideoID:  m[1],
			EmbedURL: "https://www.instagram.com/p/" + m[1] + "/embed",
		}
	}
	if httpRe.MatchString(url) {
		return &Platform{
			Source:   SourceExternal,
			Name:     "External",
			EmbedURL: url,
		}
	}
	return nil
}
