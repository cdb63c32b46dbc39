package vrtrace

import (
	"strconv"
	"strings"
)

// UserAPI is the user identity surface of the SDK.
type UserAPI struct {
	sdk *SDK
}

// User returns the user identity surface.
func (s *SDK) User() *UserAPI {
	return &UserAPI{sdk: s}
}

// SetUserID identifies the user. The first id set wins; later calls are
// ignored so accidental re-identification does not fork the user.
func (u *UserAPI) SetUserID(id string) {
	u.sdk.user.SetID(id, false)
}

// SetAge records the user's age.
func (u *UserAPI) SetAge(age int) {
	u.sdk.user.SetInfo("age", strconv.Itoa(age))
}

// SetGender records the user's gender.
func (u *UserAPI) SetGender(g Gender) {
	u.sdk.user.SetInfo("gender", g.String())
}

// SetInterests records the user's interests.
func (u *UserAPI) SetInterests(interests ...string) {
	u.sdk.user.SetInfo("interests", strings.Join(interests, ","))
}

// SetInfo records one custom user attribute.
func (u *UserAPI) SetInfo(key, value string) {
	u.sdk.user.SetInfo(key, value)
}
