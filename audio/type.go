package audio

import (
	"path/filepath"
	"strings"
)

// Type is the container format of an audio file.
type Type int

const (
	TypeUnknown Type = iota
	TypeOGGVorbis
	TypeWAV
	TypeMPEG
)

func (t Type) String() string {
	switch t {
	case TypeOGGVorbis:
		return "ogg"
	case TypeWAV:
		return "wav"
	case TypeMPEG:
		return "mp3"
	default:
		return "unknown"
	}
}

// TypeFromPath picks the format from the file extension. Only .ogg, .wav and
// .mp3 are recognized; the match ignores case.
func TypeFromPath(path string) Type {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		return TypeOGGVorbis
	case ".wav":
		return TypeWAV
	case ".mp3":
		return TypeMPEG
	default:
		return TypeUnknown
	}
}
