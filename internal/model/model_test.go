package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"user_id": 42, "organisation_id": "org-7"}`), &u))
	assert.Equal(t, ID("42"), u.UserID)
	require.NotNil(t, u.OrganisationID)
	assert.Equal(t, ID("org-7"), *u.OrganisationID)

	require.NoError(t, json.Unmarshal([]byte(`{"user_id": "u-1", "organisation_id": null}`), &u))
	assert.False(t, (&u).HasOrganisation())
}

func TestIDMarshalKeepsNumericType(t *testing.T) {
	b, err := json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "12", B: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"abc"}`, string(b))
}

func TestIDMarshalNonCanonicalNumbersAsStrings(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":"007","organisation_id":"+5"}`), &u))

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"007","fullname":"","email":"","organisation_id":"+5"}`, string(b))

	b, err = json.Marshal(struct {
		A ID `json:"a"`
		B ID `json:"b"`
	}{A: "-3", B: "99999999999999999999"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":-3,"b":"99999999999999999999"}`, string(b))
}

func TestMergeKeepsUnrelatedFields(t *testing.T) {
	org := ID("9")
	u := User{UserID: "1", Fullname: "Old", Email: "a@b.c", OrganisationID: &org}
	name := "New Name"

	got := u.Merge(UserPatch{Fullname: &name})

	assert.Equal(t, "New Name", got.Fullname)
	assert.Equal(t, "a@b.c", got.Email)
	require.NotNil(t, got.OrganisationID)
	assert.Equal(t, ID("9"), *got.OrganisationID)
	assert.Equal(t, "Old", u.Fullname, "receiver must not be mutated")
}

func TestAddAndRemoveTag(t *testing.T) {
	tags, ok := AddTag(nil, "  fintech ")
	require.True(t, ok)
	assert.Equal(t, []string{"fintech"}, tags)

	tags, ok = AddTag(tags, "   ")
	assert.False(t, ok)
	assert.Len(t, tags, 1)

	tags, _ = AddTag(tags, "saas")
	assert.Equal(t, []string{"saas"}, RemoveTag(tags, 0))
	assert.Equal(t, tags, RemoveTag(tags, 5))
}

func TestWorkflowConfigInputNormalize(t *testing.T) {
	in := WorkflowConfigInput{Domains: []string{"a", " ", " b"}, LeadsCount: -3}.Normalize()
	assert.Equal(t, []string{"a", "b"}, in.Domains)
	assert.NotNil(t, in.Locations)
	assert.Empty(t, in.Locations)
	assert.Equal(t, 0, in.LeadsCount)

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"designations":[]`)
}
