// Package idgen generates short delivery ids that tie together the log
// lines of one webhook send.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DeliveryPrefix is prepended to every delivery id.
const DeliveryPrefix = "dl-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 8

// Delivery returns a new delivery id.
func Delivery() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return DeliveryPrefix + id, nil
}
