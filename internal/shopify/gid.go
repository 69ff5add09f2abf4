package shopify

import (
	"errors"
	"strconv"
	"strings"
)

const productGIDPrefix = "gid://shopify/Product/"

// ErrInvalidID is returned for ids that are neither numeric nor product gids.
var ErrInvalidID = errors.New("invalid product id")

// ProductGID turns the numeric suffix used in routes into a product global id.
func ProductGID(numeric string) string {
	return productGIDPrefix + numeric
}

// NumericID extracts the numeric suffix from "gid://shopify/Product/<n>".
func NumericID(gid string) (string, error) {
	if !strings.HasPrefix(gid, productGIDPrefix) {
		return "", ErrInvalidID
	}
	id := strings.TrimPrefix(gid, productGIDPrefix)
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", ErrInvalidID
	}
	return id, nil
}
