package storage

import (
	"path/filepath"
	"strings"
)

// contentTypes maps normalized lowercase filename extensions, including the
// leading dot, to MIME types. Compound extensions such as ".tar.gz" carry
// their own entry and take precedence over their shorter suffixes. The table
// is deliberately static so inference does not depend on the host system's
// mime database.
var contentTypes = map[string]string{
	// Video
	".3gp":  "video/3gpp",
	".avi":  "video/x-msvideo",
	".flv":  "video/x-flv",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".ts":   "video/mp2t",
	".webm": "video/webm",
	".wmv":  "video/x-ms-wmv",

	// Audio
	".aac":  "audio/aac",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp3":  "audio/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/x-wav",
	".wma":  "audio/x-ms-wma",

	// Images
	".avif": "image/avif",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".heic": "image/heic",
	".ico":  "image/vnd.microsoft.icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",

	// Documents
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",

	// Text and captions
	".css":  "text/css",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".js":   "text/javascript",
	".json": "application/json",
	".md":   "text/markdown",
	".srt":  "application/x-subrip",
	".txt":  "text/plain",
	".vtt":  "text/vtt",
	".xml":  "text/xml",

	// Archives
	".7z":     "application/x-7z-compressed",
	".gz":     "application/gzip",
	".tar":    "application/x-tar",
	".tar.gz": "application/x-tar",
	".tgz":    "application/x-tar",
	".zip":    "application/zip",
}

// GuessContentType derives a MIME type for path from its filename extension.
// Matching is case-insensitive and the longest registered suffix wins, so
// "backup.tar.gz" resolves to the ".tar.gz" entry rather than ".gz". A
// leading dot marks a hidden file, not an extension.
//
// The second return value is false when no registered extension matches;
// callers should then omit content-type metadata and let the backend apply
// its default.
func GuessContentType(path string) (string, bool) {
	name := strings.ToLower(filepath.Base(path))
	for i := 1; i < len(name); i++ {
		if name[i] != '.' {
			continue
		}
		if ct, ok := contentTypes[name[i:]]; ok {
			return ct, true
		}
	}
	return "", false
}
