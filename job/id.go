package job

import (
	"fmt"

	"gopkg.in/mgo.v2/bson"
)

// Every backend uses Mongo ObjectIds as job ids, so ids look the same
// whichever store is configured.

// NewID returns a fresh identifier in its textual form.
func NewID() string {
	return bson.NewObjectId().Hex()
}

// ParseID converts the textual form of an identifier back to an ObjectId.
func ParseID(id string) (bson.ObjectId, error) {
	if !bson.IsObjectIdHex(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return bson.ObjectIdHex(id), nil
}

// CanonicalID validates id and returns it in the lowercase form NewID
// produces, which is the form every store keys jobs by.
func CanonicalID(id string) (string, error) {
	oid, err := ParseID(id)
	if err != nil {
		return "", err
	}
	return oid.Hex(), nil
}
