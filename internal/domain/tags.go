package domain

import (
	"fmt"
	"sort"
)

// tagKind закрытый набор измерений кэш-тегов
type tagKind string

const (
	tagKindAll         tagKind = "all"
	tagKindAppointment tagKind = "appointment"
	tagKindBranch      tagKind = "branch"
	tagKindClient      tagKind = "client"
	tagKindAssignee    tagKind = "assignee"
)

// Tag is a cache tag identifying one dimension of a cached query result.
// A cached list is tagged with every dimension value it contains; a mutation
// invalidates every tag it touches.
type Tag struct {
	kind tagKind
	id   int64
}

// TagAll tags every cached appointment list
func TagAll() Tag { return Tag{kind: tagKindAll} }

// TagAppointment tags results containing the appointment with the given id
func TagAppointment(id int64) Tag { return Tag{kind: tagKindAppointment, id: id} }

// TagBranch tags branch-scoped results
func TagBranch(id int64) Tag { return Tag{kind: tagKindBranch, id: id} }

// TagClient tags client-scoped results
func TagClient(id int64) Tag { return Tag{kind: tagKindClient, id: id} }

// TagAssignee tags assignee-scoped results
func TagAssignee(id int64) Tag { return Tag{kind: tagKindAssignee, id: id} }

// Key returns the canonical string form of the tag ("branch:7", "all", ...)
func (t Tag) Key() string {
	if t.kind == tagKindAll {
		return string(tagKindAll)
	}
	return fmt.Sprintf("%s:%d", t.kind, t.id)
}

// AffectedTags вычисляет множество тегов, которые должны быть
// инвалидированы после мутации записи.
//
// Правило (единственное место, где оно определено):
//   - общий тег all - всегда
//   - appointment:<id> - всегда
//   - branch:<id> - старый и новый филиал, если филиал менялся
//   - client:<id> - клиент записи
//   - assignee:<id> - каждый добавленный или удалённый сотрудник;
//     неизменившиеся назначения не инвалидируются (их списки ловятся
//     тегом appointment:<id>)
//
// before == nil означает создание, after == nil - удаление.
func AffectedTags(before, after *Appointment, assigneesBefore, assigneesAfter []int64) []Tag {
	seen := make(map[Tag]struct{})
	add := func(t Tag) { seen[t] = struct{}{} }

	add(TagAll())

	if before != nil {
		add(TagAppointment(before.ID))
		add(TagBranch(before.LocationBranchID))
		add(TagClient(before.ClientUserID))
	}
	if after != nil {
		add(TagAppointment(after.ID))
		add(TagBranch(after.LocationBranchID))
		add(TagClient(after.ClientUserID))
	}

	beforeSet := make(map[int64]struct{}, len(assigneesBefore))
	for _, id := range assigneesBefore {
		beforeSet[id] = struct{}{}
	}
	afterSet := make(map[int64]struct{}, len(assigneesAfter))
	for _, id := range assigneesAfter {
		afterSet[id] = struct{}{}
	}

	// Симметричная разность множеств назначений
	for id := range beforeSet {
		if _, ok := afterSet[id]; !ok {
			add(TagAssignee(id))
		}
	}
	for id := range afterSet {
		if _, ok := beforeSet[id]; !ok {
			add(TagAssignee(id))
		}
	}

	// Если запись удаляется (after == nil), списки всех текущих
	// назначенных сотрудников теряют её
	if after == nil {
		for id := range beforeSet {
			add(TagAssignee(id))
		}
	}

	tags := make([]Tag, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key() < tags[j].Key() })
	return tags
}

// TagsForList возвращает теги, под которыми должен кэшироваться
// результат выборки:
//   - теги связанных измерений фильтра (branch/client/assignee), чтобы
//     мутация по измерению инвалидировала и списки, в которых запись
//     могла бы появиться, а не только те, где она уже есть;
//   - общий тег all, если ни одно измерение не связано (глобальные и
//     только-временные списки устаревают от любой мутации);
//   - теги каждого значения измерения, фактически присутствующего
//     в результате.
func TagsForList(filter AppointmentFilter, appointments []*Appointment, assignees map[int64][]int64) []Tag {
	seen := make(map[Tag]struct{})

	scoped := false
	if filter.BranchID != nil {
		seen[TagBranch(*filter.BranchID)] = struct{}{}
		scoped = true
	}
	if filter.ClientID != nil {
		seen[TagClient(*filter.ClientID)] = struct{}{}
		scoped = true
	}
	if filter.AssigneeID != nil {
		seen[TagAssignee(*filter.AssigneeID)] = struct{}{}
		scoped = true
	}
	if !scoped {
		seen[TagAll()] = struct{}{}
	}

	for _, a := range appointments {
		seen[TagAppointment(a.ID)] = struct{}{}
		seen[TagBranch(a.LocationBranchID)] = struct{}{}
		seen[TagClient(a.ClientUserID)] = struct{}{}
		for _, userID := range assignees[a.ID] {
			seen[TagAssignee(userID)] = struct{}{}
		}
	}

	tags := make([]Tag, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Key() < tags[j].Key() })
	return tags
}
