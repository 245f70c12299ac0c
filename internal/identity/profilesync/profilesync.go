// Package profilesync computes the field patches that keep a user and its
// linked staff records approximately consistent.
//
// The user is canonical for every shared profile field. Data flows two ways
// with deliberately different semantics:
//
//   - Staff -> User runs once, at initial self-service link time, and only
//     fills fields that are empty on the user (gap-filling).
//   - User -> Staff is the authoritative direction: every field is pushed,
//     and a field absent on the source lands as the empty string.
//
// Both directions are diff-and-apply: a field already holding the desired
// value is left out of the patch, so re-running a sync over consistent
// records produces an empty patch and no write.
package profilesync

import (
	"shutterops/internal/gateway"
	"shutterops/internal/identity/models"
)

// Source is the canonical field set pushed onto staff records: either a
// user's current profile or an explicit payload from the sync request.
type Source struct {
	FullName string `json:"full_name"`
	models.Profile
}

// FromUser builds a sync source from a user's stored profile.
func FromUser(u models.User) Source {
	return Source{FullName: u.FullName, Profile: u.Profile}
}

// field maps one syncable field across the wire name and both record shapes.
type field struct {
	name      string
	fromSrc   func(Source) string
	fromStaff func(models.Staff) string
}

// The fixed syncable field set. preferred_name on staff corresponds to
// full_name on the user; everything else shares its wire name.
var fields = []field{
	{"profile_photo_url", func(s Source) string { return s.ProfilePhotoURL }, func(s models.Staff) string { return s.ProfilePhotoURL }},
	{"personal_email", func(s Source) string { return s.PersonalEmail }, func(s models.Staff) string { return s.PersonalEmail }},
	{"phone", func(s Source) string { return s.Phone }, func(s models.Staff) string { return s.Phone }},
	{"address", func(s Source) string { return s.Address }, func(s models.Staff) string { return s.Address }},
	{"bio", func(s Source) string { return s.Bio }, func(s models.Staff) string { return s.Bio }},
	{"linkedin_link", func(s Source) string { return s.LinkedinLink }, func(s models.Staff) string { return s.LinkedinLink }},
	{"facebook_link", func(s Source) string { return s.FacebookLink }, func(s models.Staff) string { return s.FacebookLink }},
	{"instagram_link", func(s Source) string { return s.InstagramLink }, func(s models.Staff) string { return s.InstagramLink }},
	{"tiktok_link", func(s Source) string { return s.TiktokLink }, func(s models.Staff) string { return s.TiktokLink }},
	{"emergency_contact_name", func(s Source) string { return s.EmergencyContactName }, func(s models.Staff) string { return s.EmergencyContactName }},
	{"emergency_contact_phone", func(s Source) string { return s.EmergencyContactPhone }, func(s models.Staff) string { return s.EmergencyContactPhone }},
	{"emergency_contact_relationship", func(s Source) string { return s.EmergencyContactRelationship }, func(s models.Staff) string { return s.EmergencyContactRelationship }},
	{"emergency_contact_email", func(s Source) string { return s.EmergencyContactEmail }, func(s models.Staff) string { return s.EmergencyContactEmail }},
}

// UserToStaffPatch computes the authoritative push of a source onto one staff
// record. Full-overwrite semantics: a field empty on the source that is set
// on the staff record is cleared. An empty result means the record is already
// consistent and no write should happen.
func UserToStaffPatch(src Source, staff models.Staff) gateway.Doc {
	patch := gateway.Doc{}
	if staff.PreferredName != src.FullName {
		patch["preferred_name"] = src.FullName
	}
	for _, f := range fields {
		want := f.fromSrc(src)
		if f.fromStaff(staff) != want {
			patch[f.name] = want
		}
	}
	if len(patch) == 0 {
		return nil
	}
	return patch
}

// StaffToUserPatch computes the gap-filling copy from a staff record onto its
// user: only fields that are non-empty on the staff record and still empty on
// the user. An empty result means nothing to fill.
func StaffToUserPatch(staff models.Staff, user models.User) gateway.Doc {
	patch := gateway.Doc{}
	if user.FullName == "" && staff.DisplayName() != "" {
		patch["full_name"] = staff.DisplayName()
	}
	userSrc := FromUser(user)
	for _, f := range fields {
		have := f.fromSrc(userSrc)
		val := f.fromStaff(staff)
		if have == "" && val != "" {
			patch[f.name] = val
		}
	}
	if len(patch) == 0 {
		return nil
	}
	return patch
}
