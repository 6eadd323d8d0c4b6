package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key scheme: colon-delimited, entity-prefixed. Point keys carry PointTTL,
// listing and batch keys carry ListTTL. Listing keys for an owner all share
// the "<entity>:list:<owner>:" prefix so a single pattern delete clears the
// owner's whole listing namespace.

func UserKey(id string) string         { return "user:" + id }
func UserEmailKey(email string) string { return "user:key:" + email }

func UserListKey(limit, offset int) string {
	return fmt.Sprintf("user:list:limit%d:offset%d", limit, offset)
}
func InstructorListKey(limit, offset int) string {
	return fmt.Sprintf("user:instructors:limit%d:offset%d", limit, offset)
}

// UserIDsKey sorts ids so equivalent batch lookups share a key.
func UserIDsKey(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return "user:ids:" + strings.Join(sorted, ",")
}

const (
	UserListPattern       = "user:list:*"
	InstructorListPattern = "user:instructors:*"
	UserIDsPattern        = "user:ids:*"
)

func CartKey(id string) string { return "cart:" + id }
func CartPageKey(userID string, limit, offset int) string {
	return fmt.Sprintf("cart:list:%s:limit%d:offset%d", userID, limit, offset)
}
func CartPagePattern(userID string) string { return "cart:list:" + userID + ":*" }

func WishlistKey(id string) string { return "wishlist:" + id }
func WishlistPageKey(userID string, limit, offset int) string {
	return fmt.Sprintf("wishlist:list:%s:limit%d:offset%d", userID, limit, offset)
}
func WishlistPagePattern(userID string) string { return "wishlist:list:" + userID + ":*" }
