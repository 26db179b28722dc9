package registration

import (
	"strconv"

	"github.com/facilitydir/dirauth/actor"
)

const (
	fieldPhone      = "phone"
	fieldNewUser    = "newUser"
	fieldRememberMe = "rememberMe"
)

// encode flattens a start request into the string fields stored on the
// registration hash.
func encode(r *actor.Registration) map[string]string {
	return map[string]string{
		fieldPhone:      r.Phone,
		fieldNewUser:    strconv.FormatBool(r.NewUser),
		fieldRememberMe: strconv.FormatBool(r.RememberMe),
	}
}

func decode(fields map[string]string) *actor.Registration {
	newUser, _ := strconv.ParseBool(fields[fieldNewUser])
	rememberMe, _ := strconv.ParseBool(fields[fieldRememberMe])
	return &actor.Registration{
		Phone:      fields[fieldPhone],
		NewUser:    newUser,
		RememberMe: rememberMe,
	}
}
