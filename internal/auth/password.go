package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. These are encoded into every stored hash, so
// changing them only affects newly-hashed passwords; existing hashes keep
// verifying against whatever parameters they were created with.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 2
	argonKeyLen  = 32
	saltLen      = 16
)

var errMalformedHash = errors.New("malformed password hash")

// hashPassword derives an argon2id hash of password under a fresh random
// salt, encoded as "argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<hash>".
func hashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// verifyPassword recomputes the hash of password using the parameters and
// salt encoded in stored, and compares it to the stored hash in constant
// time. A malformed stored value verifies as false rather than erroring,
// so callers always see the generic "incorrect" response.
func verifyPassword(stored, password string) bool {
	memory, timeIters, threads, salt, want, err := decodeHash(stored)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, timeIters, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

func decodeHash(encoded string) (memory uint32, time uint32, threads uint8, salt, hash []byte, err error) {
	toks := strings.Split(encoded, "$")
	if len(toks) != 5 || toks[0] != "argon2id" {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	for _, p := range strings.Split(toks[2], ",") {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "m":
			v, e := strconv.ParseUint(kv[1], 10, 32)
			if e != nil {
				return 0, 0, 0, nil, nil, errMalformedHash
			}
			memory = uint32(v)
		case "t":
			v, e := strconv.ParseUint(kv[1], 10, 32)
			if e != nil {
				return 0, 0, 0, nil, nil, errMalformedHash
			}
			time = uint32(v)
		case "p":
			v, e := strconv.ParseUint(kv[1], 10, 8)
			if e != nil {
				return 0, 0, 0, nil, nil, errMalformedHash
			}
			threads = uint8(v)
		}
	}
	salt, err = base64.RawStdEncoding.DecodeString(toks[3])
	if err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	hash, err = base64.RawStdEncoding.DecodeString(toks[4])
	if err != nil {
		return 0, 0, 0, nil, nil, errMalformedHash
	}
	return memory, time, threads, salt, hash, nil
}
