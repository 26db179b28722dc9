package session

import (
	"encoding/json"
	"errors"
)

var errCorruptRecord = errors.New("corrupt session record")

// Encode serializes a session to its stored JSON form. It refuses records
// whose payload does not match the kind discriminator, so a bad construction
// path can never reach Redis.
func Encode(v *Value) ([]byte, error) {
	if err := check(v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Decode parses a stored session record, applying the same kind/payload
// consistency check as [Encode].
func Decode(data []byte) (*Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errCorruptRecord
	}
	if err := check(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func check(v *Value) error {
	if v == nil || v.ID == "" || v.Duration <= 0 {
		return errCorruptRecord
	}

	var want bool
	switch v.Kind {
	case KindAdmin:
		want = v.Admin != nil
	case KindPerson:
		want = v.Person != nil
	case KindCustomer:
		want = v.Customer != nil
	case KindRegistration:
		want = v.Registration != nil
	default:
		return errCorruptRecord
	}
	if !want {
		return errCorruptRecord
	}

	payloads := 0
	for _, set := range []bool{v.Admin != nil, v.Person != nil, v.Customer != nil, v.Registration != nil} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return errCorruptRecord
	}

	return nil
}
