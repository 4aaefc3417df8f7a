package utils

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPasscode hashes an organizer passcode for in-memory storage; the raw
// passcode is never kept.
func HashPasscode(passcode string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcryptCost)
	return string(hash), err
}

func CheckPasscode(passcode, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) == nil
}
