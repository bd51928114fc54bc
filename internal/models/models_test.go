package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, SiteStatusAlert, NormalizeStatus("alert"))
	assert.Equal(t, SiteStatusCaution, NormalizeStatus("Caution"))
	assert.Equal(t, SiteStatusSafe, NormalizeStatus("SAFE"))
	assert.Equal(t, SiteStatusSafe, NormalizeStatus("DANGER"))
	assert.Equal(t, SiteStatusSafe, NormalizeStatus(nil))
	assert.Equal(t, SiteStatusSafe, NormalizeStatus(""))
}

func TestNormalizeConstructionState(t *testing.T) {
	assert.Equal(t, ConstructionDone, NormalizeConstructionState("done"))
	assert.Equal(t, ConstructionInProgress, NormalizeConstructionState("in_progress"))
	assert.Equal(t, ConstructionInProgress, NormalizeConstructionState("finished"))
	assert.Equal(t, ConstructionInProgress, NormalizeConstructionState(nil))
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole("admin"))
	assert.Equal(t, RoleSuperAdmin, NormalizeRole("super_admin"))
	assert.Equal(t, RoleCustomer, NormalizeRole("customer"))
	assert.Equal(t, RoleClient, NormalizeRole(""))
	assert.Equal(t, RoleClient, NormalizeRole("root"))
	assert.True(t, RoleSuperAdmin.IsPrivileged())
	assert.False(t, RoleCustomer.IsPrivileged())
}

func TestSiteUnmarshalReadsLegacyConstructionKeys(t *testing.T) {
	cases := map[string]string{
		"canonical": `{"id":"s1","name":"A","address":"B","constructionState":"done"}`,
		"status":    `{"id":"s1","name":"A","address":"B","constructionStatus":"DONE"}`,
		"snake":     `{"id":"s1","name":"A","address":"B","construction_state":"Done"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var s Site
			require.NoError(t, json.Unmarshal([]byte(raw), &s))
			assert.Equal(t, ConstructionDone, s.ConstructionState)
		})
	}
}

func TestSiteUnmarshalPrefersCanonicalKey(t *testing.T) {
	var s Site
	raw := `{"constructionState":"IN_PROGRESS","constructionStatus":"DONE","construction_state":"DONE"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	assert.Equal(t, ConstructionInProgress, s.ConstructionState)
}

func TestSiteUnmarshalLegacyShape(t *testing.T) {
	raw := `{"id":"s1","name":"HQ","address":"Seoul","lat":37.5665,"lng":126.978,
		"sensorCountPlanned":4,"buildYear":2010,"status":"weird"}`

	var s Site
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	require.NotNil(t, s.Latitude)
	assert.Equal(t, 37.5665, *s.Latitude)
	require.NotNil(t, s.Longitude)
	assert.Equal(t, 126.978, *s.Longitude)
	assert.Equal(t, 4, s.SensorCount)
	assert.Equal(t, "2010", s.BuildingYear)
	assert.Equal(t, SiteStatusSafe, s.Status)
	assert.Equal(t, ConstructionInProgress, s.ConstructionState)
}

func TestSiteMarshalMirrorsConstructionKeys(t *testing.T) {
	s := Site{ID: "s1", Name: "A", Address: "B", Status: "caution", ConstructionState: ConstructionDone}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "DONE", out["constructionState"])
	assert.Equal(t, "DONE", out["constructionStatus"])
	assert.Equal(t, "DONE", out["construction_state"])
	assert.Equal(t, "CAUTION", out["status"])
	assert.Nil(t, out["latitude"])
	assert.Contains(t, out, "latitude")
}

func TestSitePatchNewSiteDefaults(t *testing.T) {
	var p SitePatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":" HQ ","address":"Seoul","sensorCount":"many","latitude":"north"}`), &p))

	site := p.NewSite("site-1")
	assert.Equal(t, "HQ", site.Name)
	assert.Equal(t, 0, site.SensorCount)
	assert.Nil(t, site.Latitude)
	assert.Nil(t, site.Longitude)
	assert.Equal(t, SiteStatusSafe, site.Status)
	assert.Equal(t, ConstructionInProgress, site.ConstructionState)
}

func TestSitePatchApplyIsPartial(t *testing.T) {
	lat := 37.5
	cur := &Site{ID: "s1", Name: "HQ", Address: "Seoul", Latitude: &lat, BuildingYear: "2010", Status: SiteStatusSafe}

	var p SitePatch
	require.NoError(t, json.Unmarshal([]byte(`{"status":"alert"}`), &p))
	next := p.Apply(cur)

	assert.Equal(t, SiteStatusAlert, next.Status)
	assert.Equal(t, "HQ", next.Name)
	assert.Equal(t, "Seoul", next.Address)
	assert.Equal(t, "2010", next.BuildingYear)
	require.NotNil(t, next.Latitude)
	assert.Equal(t, 37.5, *next.Latitude)
	assert.Equal(t, SiteStatusSafe, cur.Status, "original must not be mutated")
}

func TestSitePatchApplyCoordinates(t *testing.T) {
	lat := 37.5
	cur := &Site{Latitude: &lat, Longitude: &lat}

	var p SitePatch
	require.NoError(t, json.Unmarshal([]byte(`{"latitude":null,"longitude":"bogus"}`), &p))
	next := p.Apply(cur)

	assert.Nil(t, next.Latitude, "explicit null clears")
	require.NotNil(t, next.Longitude, "unparseable value is ignored")
	assert.Equal(t, 37.5, *next.Longitude)
}

func TestSitePatchConstructionLegacyKey(t *testing.T) {
	var p SitePatch
	require.NoError(t, json.Unmarshal([]byte(`{"construction_state":"done"}`), &p))
	require.NotNil(t, p.ConstructionState)
	assert.Equal(t, ConstructionDone, *p.ConstructionState)
}

func TestUserCanAccessSite(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	scopedAdmin := &User{Role: RoleAdmin, SiteIDs: []string{"a"}}
	customer := &User{Role: RoleCustomer, SiteIDs: []string{"a"}}
	lonely := &User{Role: RoleCustomer}

	assert.True(t, admin.CanAccessSite("anything"))
	assert.True(t, scopedAdmin.CanAccessSite("a"))
	assert.False(t, scopedAdmin.CanAccessSite("b"))
	assert.True(t, customer.CanAccessSite("a"))
	assert.False(t, customer.CanAccessSite("b"))
	assert.False(t, lonely.CanAccessSite("a"))
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{ID: "u1", Username: "op", PasswordHash: "secret", Role: RoleAdmin}

	data, err := json.Marshal(u.Sanitized())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), `"siteIds":[]`)
}

func TestNewMetricsKeepsOnlyNumbers(t *testing.T) {
	m := NewMetrics(0.35, "0.2", json.RawMessage(`{"axis":"x"}`))

	require.NotNil(t, m.Shake)
	assert.Equal(t, 0.35, *m.Shake)
	assert.Nil(t, m.Bending)
	assert.JSONEq(t, `{"axis":"x"}`, string(m.Raw))
}

func TestMetricsScanRoundTrip(t *testing.T) {
	shake := 0.12
	in := Metrics{Shake: &shake}
	v, err := in.Value()
	require.NoError(t, err)

	var out Metrics
	require.NoError(t, out.Scan(v))
	require.NotNil(t, out.Shake)
	assert.Equal(t, 0.12, *out.Shake)
	assert.Nil(t, out.Bending)
	assert.Nil(t, out.Raw)
}

func TestMeasurementFiltersEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultMeasurementLimit, MeasurementFilters{}.EffectiveLimit())
	assert.Equal(t, 10, MeasurementFilters{Limit: 10}.EffectiveLimit())
	assert.Equal(t, MaxMeasurementLimit, MeasurementFilters{Limit: 100000}.EffectiveLimit())
}
