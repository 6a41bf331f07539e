package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeOrderToken creates a base64 encoded token from an order's creation time and id.
// Orders are listed newest first, so the pair (createdAt, orderID) is a stable cursor.
func EncodeOrderToken(createdAt time.Time, orderID string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.UTC().Format(timeFormat), orderID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeOrderToken parses the base64 encoded token back into creation time and order id.
func DecodeOrderToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return createdAt, parts[1], nil
}
