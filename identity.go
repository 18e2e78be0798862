package autocron

import (
	"crypto/md5"
	"encoding/hex"
)

// identityKind is hashed into every derived identifier.
const identityKind = "autocron.Job"

// DeriveID makes identifier more likely to be unique to one registration by
// appending an md5 of the registration context: the identifier, schema, log
// destination and script path. Uniqueness is advisory only.
func DeriveID(identifier, schema, logDestination, script string) string {
	sum := md5.Sum([]byte(identifier + schema + logDestination + script + identityKind))
	return identifier + "." + hex.EncodeToString(sum[:])
}
