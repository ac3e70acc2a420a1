package adapters

import (
	"regexp"

	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/validate"
)

var flipkartRules = []extract.FieldRule{
	{Hint: validate.HintName, Keys: []string{"name", "fullName", "full_name", "displayName", "userName", "firstName", "lastName"}},
	{Hint: validate.HintEmail, Keys: []string{"email", "emailAddress", "email_address", "userEmail"}},
	{Hint: validate.HintPhone, Keys: []string{"phone", "phoneNumber", "mobile", "mobileNumber", "contactNumber"}},
}

var (
	linkedinTitle   = regexp.MustCompile(`^(?:\(\d+\)\s*)?(.+?)\s*\|`)
	headlineCompany = regexp.MustCompile(`(?i)(?:\bat|@)\s+([A-Za-z0-9][A-Za-z0-9\s&.,'-]*)`)
	countOnly       = regexp.MustCompile(`^([\d,]+)\+?$`)
)

// linkedinProfile reads a public profile page: the top card, then the
// education section
var linkedinProfile = []DOMPick{
	{Key: "full_name", Hint: validate.HintName, Selectors: []string{"title"}, Match: linkedinTitle},
	{Key: "bio", Selectors: []string{".text-body-medium.break-words", "h1.text-heading-xlarge + div"}},
	{Key: "company", Selectors: []string{".text-body-medium.break-words"}, Match: headlineCompany},
	{Key: "address", Hint: validate.HintAddress, Selectors: []string{
		".text-body-small.inline.t-black--light.break-words", `[data-field="location_text"]`,
	}},
	{Key: "connections", Scan: true, Match: countOnly, Selectors: []string{".pv-top-card--list-bullet span", ".pv-top-card--list-bullet strong"}},
	{Key: "followers", Nth: 1, Match: countOnly, Selectors: []string{".pv-top-card--list-bullet span, .pv-top-card--list-bullet strong"}},
	{Key: "avatar", Hint: validate.HintAvatar, Attr: "src", Selectors: []string{
		"img.pv-top-card-profile-picture__image", "img.profile-photo-edit__preview",
	}},
	{Key: "education", Parts: []string{".pv-entity__degree-name", "h3"}, Selectors: []string{
		`[data-field="education"] .pv-entity__summary-info`, "#education ~ .pvs-list__outer-container li",
	}},
}

// Builtin returns the site catalog. Every adapter shares the noise filter.
func Builtin(noise *validate.NoiseFilter) []Adapter {
	sites := []*Staged{
		{
			Site:  "flipkart",
			Sites: []string{"flipkart.com"},
			REST: &RESTStage{
				Endpoints: []string{"/api/3/user/info", "/api/2/user/profile", "/api/user/details", "/account/api/profile"},
				Roots:     []string{"user", "data"},
				Picks: []Pick{
					{Key: "name", Join: []string{"firstName", "lastName"}, Paths: []string{"name"}},
					{Key: "email", Paths: []string{"email"}},
					{Key: "phone", Paths: []string{"phone", "mobile"}},
				},
			},
			State: []StateStage{{
				Paths:     []string{"__INITIAL_STATE__", "__FLIPKART_STATE__", "initialState", "pageData", "userData", "_user"},
				Rules:     flipkartRules,
				JoinNames: true,
			}},
			DOM: []DOMPick{
				{Key: "name", Hint: validate.HintName, Scan: true, Selectors: []string{
					`[data-testid="user-name"]`, ".user-name", "._1psGvi", "._2aK_gu",
					".profile-name", ".user-profile-name", `[class*="userName"]`, `[class*="displayName"]`,
				}},
				{Key: "email", Hint: validate.HintEmail, Scan: true, Selectors: []string{
					`[data-testid="user-email"]`, ".user-email", `input[type="email"]`, `[class*="email"]`,
				}},
				{Key: "phone", Hint: validate.HintPhone, Scan: true, Selectors: []string{
					`[data-testid="user-phone"]`, ".user-phone", ".user-mobile",
					`input[type="tel"]`, `[class*="mobile"]`, `[class*="phone"]`,
				}},
			},
			Profile: []DOMPick{
				{Key: "first_name", Hint: validate.HintName, Selectors: []string{
					`input[placeholder*="First"]`, `input[name*="first"]`, `input[id*="first"]`,
				}},
				{Key: "last_name", Hint: validate.HintName, Selectors: []string{
					`input[placeholder*="Last"]`, `input[name*="last"]`, `input[id*="last"]`,
				}},
				{Key: "gender", Hint: validate.HintGender, Attr: "value", Selectors: []string{
					`input[type="radio"][name*="gender"][checked]`, `input[type="radio"][checked]`,
				}},
			},
		},
		{
			Site:  "myntra",
			Sites: []string{"myntra.com"},
			State: []StateStage{{
				Paths: []string{"__myx_state__.user"},
				Picks: []Pick{
					{Key: "name", Paths: []string{"name", "displayName"}},
					{Key: "email", Paths: []string{"email"}},
					{Key: "phone", Paths: []string{"mobile"}},
				},
			}},
			Table: &TableStage{
				Rows: "table.profile-infoTable tr",
				Skip: []string{"- not added -"},
				Labels: []TableLabel{
					{Contains: "full name", Key: "full_name", SplitName: true},
					{Contains: "alternate mobile", Key: "secondary_phone"},
					{Contains: "mobile number", Key: "phone"},
					{Contains: "email", Key: "email"},
					{Contains: "gender", Key: "gender"},
					{Contains: "date of birth", Key: "dob"},
					{Contains: "location", Key: "address"},
					{Contains: "hint name", Key: "username"},
				},
			},
		},
		{
			Site:  "linkedin",
			Sites: []string{"linkedin.com"},
			Guard: "voyagerEndpoints",
			DOM: []DOMPick{{
				Key:       "name",
				Selectors: []string{`[data-control-name="identity_welcome_message"]`},
				Strip:     []string{"Hi, ", "!"},
			}},
			Profile: linkedinProfile,
		},
		{
			Site:  "facebook",
			Sites: []string{"facebook.com"},
			Guard: "__additionalDataLoaded",
			DOM: []DOMPick{{
				Key:       "name",
				Selectors: []string{`[data-testid="user-menu-button"]`},
				Attr:      "aria-label",
			}},
		},
		{
			Site:  "instagram",
			Sites: []string{"instagram.com"},
			State: []StateStage{{
				Paths: []string{"_sharedData.config.viewer"},
				Picks: []Pick{
					{Key: "name", Paths: []string{"full_name"}},
					{Key: "username", Paths: []string{"username"}},
					{Key: "avatar", Paths: []string{"profile_pic_url"}},
				},
			}},
		},
		{
			Site:  "amazon",
			Sites: []string{"amazon.in", "amazon.com"},
			DOM: []DOMPick{{
				Key:       "name",
				Selectors: []string{"#nav-link-accountList .nav-line-1"},
				Strip:     []string{"Hello, "},
			}},
		},
		{
			Site:  "paytm",
			Sites: []string{"paytm.com"},
			State: []StateStage{preloadedUser()},
		},
		{
			Site:  "phonepe",
			Sites: []string{"phonepe.com"},
			DOM:   []DOMPick{{Key: "name", Selectors: []string{".user-profile-name"}}},
		},
		{
			Site:  "swiggy",
			Sites: []string{"swiggy.com"},
			State: []StateStage{preloadedUser()},
		},
		{
			Site:  "zomato",
			Sites: []string{"zomato.com"},
			DOM:   []DOMPick{{Key: "name", Selectors: []string{`[data-testid="user-name"]`}}},
		},
		{
			Site:  "ola",
			Sites: []string{"ola.com"},
			State: []StateStage{{
				Paths: []string{"appData.user"},
				Picks: []Pick{
					{Key: "name", Paths: []string{"name"}},
					{Key: "phone", Paths: []string{"mobile"}},
				},
			}},
		},
		{
			Site:  "uber",
			Sites: []string{"uber.com"},
			State: []StateStage{{
				// The snapshot carries the redux store state, not the store itself
				Paths: []string{"__REDUX_STORE__.user", "__REDUX_STORE__.state.user"},
				Picks: []Pick{
					{Key: "name", Join: []string{"firstName", "lastName"}},
					{Key: "email", Paths: []string{"email"}},
				},
			}},
		},
		{
			Site:  "netflix",
			Sites: []string{"netflix.com"},
			State: []StateStage{{
				Paths: []string{"netflix.reactContext.models.user"},
				Picks: []Pick{
					{Key: "email", Paths: []string{"email"}},
					{Key: "name", Paths: []string{"firstName"}},
				},
			}},
		},
		{
			Site:  "hotstar",
			Sites: []string{"hotstar.com"},
			DOM:   []DOMPick{{Key: "name", Selectors: []string{".profile-name"}}},
		},
		{
			Site:  "gmail",
			Sites: []string{"gmail.com"},
			DOM: []DOMPick{
				{Key: "email", Selectors: []string{`[data-testid="user-email"], .gb_Ab`}},
				{Key: "name", Selectors: []string{`[data-testid="user-name"], .gb_yb`}},
			},
		},
		{
			Site:  "outlook",
			Sites: []string{"outlook.com"},
			DOM:   []DOMPick{{Key: "name", Selectors: []string{`[data-testid="user-displayname"]`}}},
		},
	}

	out := make([]Adapter, 0, len(sites)+1)
	for _, s := range sites {
		s.noise = noise
		out = append(out, s)
	}
	out = append(out, NewTwitterAdapter())
	return out
}

func preloadedUser() StateStage {
	return StateStage{
		Paths: []string{"__PRELOADED_STATE__.user"},
		Picks: []Pick{
			{Key: "name", Paths: []string{"name"}},
			{Key: "email", Paths: []string{"email"}},
			{Key: "phone", Paths: []string{"mobile"}},
		},
	}
}
