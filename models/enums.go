package models

import (
	"strconv"
	"strings"
)

// Enumerations are stored as small integers. Zero means unset. JSON and
// form input carry the name, although the integer is accepted as well.
// A name outside the table decodes to -1 so validation can report it.

type enumNames map[int]string

func (e enumNames) name(v int) string {
	return e[v]
}

func (e enumNames) valid(v int) bool {
	_, ok := e[v]
	return ok
}

func (e enumNames) parse(b []byte) int {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if e.valid(n) {
			return n
		}
		return -1
	}
	for v, name := range e {
		if strings.EqualFold(name, s) {
			return v
		}
	}
	return -1
}

// ProductStatus
type ProductStatus int

const (
	ProductAvailable ProductStatus = iota + 1
	ProductUnavailable
)

var productStatusNames = enumNames{1: "available", 2: "unavailable"}

func (s ProductStatus) String() string               { return productStatusNames.name(int(s)) }
func (s ProductStatus) IsValid() bool                { return productStatusNames.valid(int(s)) }
func (s ProductStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *ProductStatus) UnmarshalText(b []byte) error {
	*s = ProductStatus(productStatusNames.parse(b))
	return nil
}

// GameMode
type GameMode int

const (
	GamePvP GameMode = iota + 1
	GamePvE
	GameBoth
)

var gameModeNames = enumNames{1: "pvp", 2: "pve", 3: "both"}

func (m GameMode) String() string               { return gameModeNames.name(int(m)) }
func (m GameMode) IsValid() bool                { return gameModeNames.valid(int(m)) }
func (m GameMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
func (m *GameMode) UnmarshalText(b []byte) error {
	*m = GameMode(gameModeNames.parse(b))
	return nil
}

// CouponStatus
type CouponStatus int

const (
	CouponActive CouponStatus = iota + 1
	CouponInactive
)

var couponStatusNames = enumNames{1: "active", 2: "inactive"}

func (s CouponStatus) String() string               { return couponStatusNames.name(int(s)) }
func (s CouponStatus) IsValid() bool                { return couponStatusNames.valid(int(s)) }
func (s CouponStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *CouponStatus) UnmarshalText(b []byte) error {
	*s = CouponStatus(couponStatusNames.parse(b))
	return nil
}

// LicenseStatus
type LicenseStatus int

const (
	LicenseAvailable LicenseStatus = iota + 1
	LicenseInUse
	LicenseInactive
)

var licenseStatusNames = enumNames{1: "available", 2: "in_use", 3: "inactive"}

func (s LicenseStatus) String() string               { return licenseStatusNames.name(int(s)) }
func (s LicenseStatus) IsValid() bool                { return licenseStatusNames.valid(int(s)) }
func (s LicenseStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (s *LicenseStatus) UnmarshalText(b []byte) error {
	*s = LicenseStatus(licenseStatusNames.parse(b))
	return nil
}

// LicensePlatform
type LicensePlatform int

const (
	PlatformSteam LicensePlatform = iota + 1
	PlatformBattleNet
	PlatformOrigin
)

var licensePlatformNames = enumNames{1: "steam", 2: "battle_net", 3: "origin"}

func (p LicensePlatform) String() string               { return licensePlatformNames.name(int(p)) }
func (p LicensePlatform) IsValid() bool                { return licensePlatformNames.valid(int(p)) }
func (p LicensePlatform) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *LicensePlatform) UnmarshalText(b []byte) error {
	*p = LicensePlatform(licensePlatformNames.parse(b))
	return nil
}

// UserProfile
type UserProfile int

const (
	ProfileAdmin UserProfile = iota + 1
	ProfileClient
)

var userProfileNames = enumNames{1: "admin", 2: "client"}

func (p UserProfile) String() string               { return userProfileNames.name(int(p)) }
func (p UserProfile) IsValid() bool                { return userProfileNames.valid(int(p)) }
func (p UserProfile) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p *UserProfile) UnmarshalText(b []byte) error {
	*p = UserProfile(userProfileNames.parse(b))
	return nil
}
