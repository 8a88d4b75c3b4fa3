package encoding

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/loft-sh/log"
	homedir "github.com/mitchellh/go-homedir"
)

const (
	// hashingKey is a random string used for hashing the UID.
	// It shouldn't be changed after the release.
	hashingKey = "q7Vd2LmX9cTzR4wNb8Ke"
)

const (
	ExecutionIDLength = 16
	UserIDLength      = 40
)

// NewExecutionID returns a random id of ExecutionIDLength characters.
func NewExecutionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[0:ExecutionIDLength]
}

// AnonymousUserID is the user id CLI telemetry reports under when none is configured.
func AnonymousUserID(log log.Logger) string {
	return SafeConcatNameMax([]string{"cli", GetMachineUID(log)}, UserIDLength)
}

func SafeConcatNameMax(name []string, max int) string {
	fullPath := strings.Join(name, "-")
	if len(fullPath) > max {
		digest := sha256.Sum256([]byte(fullPath))
		digestEncoded := hex.EncodeToString(digest[0:])
		trimmedPath := fullPath[0 : max-6]
		if strings.HasSuffix(trimmedPath, "-") {
			trimmedPath += digestEncoded[0:6]
		} else {
			trimmedPath += "-" + digestEncoded[0:5]
		}

		return trimmedPath
	}
	return fullPath
}

// Gets machine ID and encodes it together with users $HOME path and extra key to protect privacy.
// Returns a hex-encoded string.
func GetMachineUID(log log.Logger) string {
	id, err := machineid.ID()
	if err != nil {
		id = "error"
		if log != nil {
			log.Debugf("Error retrieving machine uid: %v", err)
		}
	}
	// get $HOME to distinguish two users on the same machine
	// will be hashed later together with the ID
	home, err := homedir.Dir()
	if err != nil {
		home = "error"
		if log != nil {
			log.Debugf("Error retrieving machine home: %v", err)
		}
	}
	mac := hmac.New(sha256.New, []byte(id))
	mac.Write([]byte(hashingKey))
	mac.Write([]byte(home))
	return fmt.Sprintf("%x", mac.Sum(nil))
}
