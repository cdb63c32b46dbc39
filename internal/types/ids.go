// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type SessionToken string
type SceneToken string
type MediaToken string
type DeviceID string

func NewSessionToken() SessionToken {
	return SessionToken(uuid.New().String())
}

func NewSceneToken() SceneToken {
	return SceneToken(uuid.New().String())
}

func NewMediaToken() MediaToken {
	return MediaToken(uuid.New().String())
}

func NewDeviceID() DeviceID {
	return DeviceID(uuid.New().String())
}
