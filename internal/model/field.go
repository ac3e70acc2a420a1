package model

// Field is a canonical output field name
type Field string

const (
	FieldFullName          Field = "full_name"
	FieldFirstName         Field = "first_name"
	FieldLastName          Field = "last_name"
	FieldUsername          Field = "username"
	FieldEmail             Field = "email"
	FieldPhone             Field = "phone"
	FieldSecondaryEmail    Field = "secondary_email"
	FieldSecondaryPhone    Field = "secondary_phone"
	FieldAddress           Field = "address"
	FieldCity              Field = "city"
	FieldState             Field = "state"
	FieldCountry           Field = "country"
	FieldZipCode           Field = "zip_code"
	FieldProfileURL        Field = "profile_url"
	FieldProfilePictureURL Field = "profile_picture_url"
	FieldBio               Field = "bio"
	FieldCompany           Field = "company"
	FieldRole              Field = "role"
	FieldIndustry          Field = "industry"
	FieldEducation         Field = "education"
	FieldDOB               Field = "dob"
	FieldGender            Field = "gender"
	FieldFollowers         Field = "followers"
	FieldFollowing         Field = "following"
	FieldConnections       Field = "connections"
	FieldFriendsCount      Field = "friends_count"
	FieldLikesCount        Field = "likes_count"
	FieldJoinedDate        Field = "joined_date"
	FieldLastLogin         Field = "last_login"
	FieldSourceDomain      Field = "source_domain"
	FieldScrapedAt         Field = "scraped_at"
	FieldScraperVersion    Field = "scraper_version"
)

// fieldOrder is the declared processing and output order
var fieldOrder = []Field{
	FieldFullName, FieldFirstName, FieldLastName, FieldUsername,
	FieldEmail, FieldPhone, FieldSecondaryEmail, FieldSecondaryPhone,
	FieldAddress, FieldCity, FieldState, FieldCountry, FieldZipCode,
	FieldProfileURL, FieldProfilePictureURL, FieldBio,
	FieldCompany, FieldRole, FieldIndustry, FieldEducation,
	FieldDOB, FieldGender,
	FieldFollowers, FieldFollowing, FieldConnections, FieldFriendsCount, FieldLikesCount,
	FieldJoinedDate, FieldLastLogin,
	FieldSourceDomain, FieldScrapedAt, FieldScraperVersion,
}

var fieldSet = func() map[Field]int {
	m := make(map[Field]int, len(fieldOrder))
	for i, f := range fieldOrder {
		m[f] = i
	}
	return m
}()

// Fields returns all canonical fields in declared order
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsCanonical reports whether f belongs to the canonical field set
func IsCanonical(f Field) bool {
	_, ok := fieldSet[f]
	return ok
}

// Kind classifies how a field's value is validated and cleaned
type Kind string

const (
	KindString      Kind = "string"
	KindPhone       Kind = "phone"
	KindEmail       Kind = "email"
	KindURL         Kind = "url"
	KindNumeric     Kind = "numeric-compact"
	KindDate        Kind = "date"
	KindStringArray Kind = "string-array"
)

// ParseKind validates a kind name
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindString, KindPhone, KindEmail, KindURL, KindNumeric, KindDate, KindStringArray:
		return k, true
	}
	return "", false
}
