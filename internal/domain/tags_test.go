package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tagKeys(tags []Tag) []string {
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = t.Key()
	}
	return keys
}

func TestTagKey(t *testing.T) {
	assert.Equal(t, "all", TagAll().Key())
	assert.Equal(t, "appointment:12", TagAppointment(12).Key())
	assert.Equal(t, "branch:7", TagBranch(7).Key())
	assert.Equal(t, "client:42", TagClient(42).Key())
	assert.Equal(t, "assignee:9", TagAssignee(9).Key())
}

func TestAffectedTags_Create(t *testing.T) {
	created := &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 7}

	tags := AffectedTags(nil, created, nil, []int64{5, 6})

	assert.ElementsMatch(t, []string{
		"all", "appointment:1", "branch:7", "client:42", "assignee:5", "assignee:6",
	}, tagKeys(tags))
}

func TestAffectedTags_UpdateAssignees(t *testing.T) {
	appt := &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 7}

	// [5,7] -> [5,6]: инвалидируются добавленный 6 и снятый 7, но не 5
	tags := AffectedTags(appt, appt, []int64{5, 7}, []int64{5, 6})
	keys := tagKeys(tags)

	assert.Contains(t, keys, "assignee:6")
	assert.Contains(t, keys, "assignee:7")
	assert.NotContains(t, keys, "assignee:5")
}

func TestAffectedTags_BranchChange(t *testing.T) {
	before := &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 7}
	after := &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 9}

	tags := AffectedTags(before, after, nil, nil)
	keys := tagKeys(tags)

	// Списки старого и нового филиала устарели оба
	assert.Contains(t, keys, "branch:7")
	assert.Contains(t, keys, "branch:9")
}

func TestAffectedTags_Delete(t *testing.T) {
	appt := &Appointment{ID: 3, ClientUserID: 42, LocationBranchID: 7}

	tags := AffectedTags(appt, nil, []int64{5, 6}, nil)

	assert.ElementsMatch(t, []string{
		"all", "appointment:3", "branch:7", "client:42", "assignee:5", "assignee:6",
	}, tagKeys(tags))
}

func TestAffectedTags_Deterministic(t *testing.T) {
	appt := &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 7}

	first := AffectedTags(appt, nil, []int64{9, 5, 6}, nil)
	second := AffectedTags(appt, nil, []int64{6, 9, 5}, nil)

	assert.Equal(t, first, second)
}

func TestTagsForList_Unscoped(t *testing.T) {
	appts := []*Appointment{
		{ID: 1, ClientUserID: 42, LocationBranchID: 7},
		{ID: 2, ClientUserID: 43, LocationBranchID: 7},
	}
	assignees := map[int64][]int64{1: {5}}

	tags := TagsForList(AppointmentFilter{}, appts, assignees)

	assert.ElementsMatch(t, []string{
		"all",
		"appointment:1", "appointment:2",
		"branch:7",
		"client:42", "client:43",
		"assignee:5",
	}, tagKeys(tags))
}

func TestTagsForList_Scoped(t *testing.T) {
	branchID := int64(7)
	filter := AppointmentFilter{BranchID: &branchID}

	tags := TagsForList(filter, nil, nil)
	keys := tagKeys(tags)

	// Связанное измерение тегируется даже при пустом результате,
	// общий тег all не используется
	assert.Contains(t, keys, "branch:7")
	assert.NotContains(t, keys, "all")
}

func TestTagsForList_ScopedEmptyResultStillInvalidated(t *testing.T) {
	clientID := int64(42)
	filter := AppointmentFilter{ClientID: &clientID}

	// Пустой закэшированный список клиента должен инвалидироваться
	// созданием его первой записи
	listTags := TagsForList(filter, nil, nil)
	mutationTags := AffectedTags(nil, &Appointment{ID: 1, ClientUserID: 42, LocationBranchID: 7}, nil, nil)

	listKeys := tagKeys(listTags)
	overlap := false
	for _, k := range tagKeys(mutationTags) {
		for _, lk := range listKeys {
			if k == lk {
				overlap = true
			}
		}
	}
	assert.True(t, overlap, "mutation tags must overlap the tags of a scoped empty list")
}
