package clip

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// TextHash derives the identity of a generated clip from its id and text.
// It is an MD5 of id+text laid out in .NET Guid byte order, matching cache
// keys written by the C# client. Audio content is not part of it.
func TextHash(id, text string) uuid.UUID {
	sum := md5.Sum([]byte(id + text))

	// GUID stores its first three groups little endian
	sum[0], sum[1], sum[2], sum[3] = sum[3], sum[2], sum[1], sum[0]
	sum[4], sum[5] = sum[5], sum[4]
	sum[6], sum[7] = sum[7], sum[6]

	return uuid.UUID(sum)
}
