package entity

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

var ErrUnknownTarget = errors.New("unknown audience target")

// AudienceTarget is one targeting criterion. The set is closed to this
// package; adding a variant means adding a method to AudienceVisitor, so
// every resolver has to handle it.
type AudienceTarget interface {
	Accept(v AudienceVisitor) error
	audienceTarget()
}

type AudienceVisitor interface {
	VisitAllInOrg(t AllInOrg) error
	VisitByRole(t ByRole) error
	VisitByGroup(t ByGroup) error
	VisitByMinistry(t ByMinistry) error
	VisitByStatus(t ByStatus) error
	VisitByExternalStatus(t ByExternalStatus) error
	VisitByGender(t ByGender) error
}

type (
	AllInOrg         struct{}
	ByRole           struct{ Roles []string }
	ByGroup          struct{ GroupIDs []int64 }
	ByMinistry       struct{ MinistryIDs []int64 }
	ByStatus         struct{ Statuses []string }
	ByExternalStatus struct{ Statuses []string }
	ByGender         struct{ Gender string }
)

func (t AllInOrg) Accept(v AudienceVisitor) error         { return v.VisitAllInOrg(t) }
func (t ByRole) Accept(v AudienceVisitor) error           { return v.VisitByRole(t) }
func (t ByGroup) Accept(v AudienceVisitor) error          { return v.VisitByGroup(t) }
func (t ByMinistry) Accept(v AudienceVisitor) error       { return v.VisitByMinistry(t) }
func (t ByStatus) Accept(v AudienceVisitor) error         { return v.VisitByStatus(t) }
func (t ByExternalStatus) Accept(v AudienceVisitor) error { return v.VisitByExternalStatus(t) }
func (t ByGender) Accept(v AudienceVisitor) error         { return v.VisitByGender(t) }

func (AllInOrg) audienceTarget()         {}
func (ByRole) audienceTarget()           {}
func (ByGroup) audienceTarget()          {}
func (ByMinistry) audienceTarget()       {}
func (ByStatus) audienceTarget()         {}
func (ByExternalStatus) audienceTarget() {}
func (ByGender) audienceTarget()         {}

const (
	TargetAllInOrg         = "all_in_org"
	TargetByRole           = "by_role"
	TargetByGroup          = "by_group"
	TargetByMinistry       = "by_ministry"
	TargetByStatus         = "by_status"
	TargetByExternalStatus = "by_external_status"
	TargetByGender         = "by_gender"
)

// ParseTarget builds a target from its wire form. by_gender uses the first
// value only.
func ParseTarget(kind string, values []string) (AudienceTarget, error) {
	values = cleanValues(values)

	switch kind {
	case TargetAllInOrg:
		return AllInOrg{}, nil
	case TargetByRole:
		return ByRole{Roles: values}, nil
	case TargetByGroup:
		ids, err := parseIDs(values)
		return ByGroup{GroupIDs: ids}, err
	case TargetByMinistry:
		ids, err := parseIDs(values)
		return ByMinistry{MinistryIDs: ids}, err
	case TargetByStatus:
		return ByStatus{Statuses: values}, nil
	case TargetByExternalStatus:
		return ByExternalStatus{Statuses: values}, nil
	case TargetByGender:
		if len(values) == 0 {
			return ByGender{}, nil
		}
		return ByGender{Gender: values[0]}, nil
	default:
		return nil, ErrUnknownTarget
	}
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Audience is the resolved recipient set. Contacts maps normalized phone to
// name for external contacts without an account.
type Audience struct {
	AccountIDs []int64
	Contacts   map[string]string
}

type AudienceCount struct {
	AccountCount  int
	ExternalCount int
	Total         int
}

func (a Audience) Count() AudienceCount {
	return AudienceCount{
		AccountCount:  len(a.AccountIDs),
		ExternalCount: len(a.Contacts),
		Total:         len(a.AccountIDs) + len(a.Contacts),
	}
}

// NormalizePhone keeps digits only.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
