package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Prefix is the custom id namespace of the configuration panel.
const Prefix = "config"

// Verb is one transition of the configuration panel.
type Verb int

const (
	VerbUnknown Verb = iota

	VerbBack
	VerbClose

	VerbRoleMenu
	VerbRolePage
	VerbRoleBack
	VerbRoleSelect
	VerbRoleOpenEdit
	VerbRoleOpenRemove
	VerbRoleMoveUp
	VerbRoleMoveDown
	VerbRoleAdd
	VerbRoleAddSelect
	VerbRoleAddSubmit
	VerbRoleChange
	VerbRoleEditTexts
	VerbRoleEditSubmit
	VerbRoleRemoveConfirm

	VerbPerso
	VerbPersoLayout
	VerbPersoDividers
	VerbPersoTexts
	VerbPersoSubmit

	VerbDeploy
	VerbDeployChannel
	VerbDeployUpdate

	VerbLogs
	VerbLogsChannel
	VerbLogsCategoryRoles
	VerbLogsCategoryRgpd
	VerbLogsCategoryAdmin
	VerbLogsToggleAll
	VerbLogsVisual

	VerbAdminMenu
	VerbAdminPage
	VerbAdminBack
	VerbAdminAdd
	VerbAdminAddUser
	VerbAdminAddRole
	VerbAdminRemove
	VerbAdminRemovePage
	VerbAdminRemoveSelect
)

// argKind is the positional argument a verb carries in its custom id.
type argKind int

const (
	argNone argKind = iota
	argEntry
	argRole
	argPage
)

type verbSpec struct {
	name string
	arg  argKind
}

var verbSpecs = map[Verb]verbSpec{
	VerbBack:  {"back", argNone},
	VerbClose: {"close", argNone},

	VerbRoleMenu:          {"role-menu", argNone},
	VerbRolePage:          {"role-page", argPage},
	VerbRoleBack:          {"role-back", argNone},
	VerbRoleSelect:        {"role-select", argNone},
	VerbRoleOpenEdit:      {"role-action-edit", argEntry},
	VerbRoleOpenRemove:    {"role-action-remove", argEntry},
	VerbRoleMoveUp:        {"role-action-up", argEntry},
	VerbRoleMoveDown:      {"role-action-down", argEntry},
	VerbRoleAdd:           {"role-add", argNone},
	VerbRoleAddSelect:     {"role-add-select", argNone},
	VerbRoleAddSubmit:     {"role-add-modal", argRole},
	VerbRoleChange:        {"role-edit-role", argEntry},
	VerbRoleEditTexts:     {"role-edit-texts", argEntry},
	VerbRoleEditSubmit:    {"role-edit-modal", argEntry},
	VerbRoleRemoveConfirm: {"role-remove-confirm", argEntry},

	VerbPerso:         {"role-perso", argNone},
	VerbPersoLayout:   {"role-perso-layout", argNone},
	VerbPersoDividers: {"role-perso-dividers", argNone},
	VerbPersoTexts:    {"role-perso-texts", argNone},
	VerbPersoSubmit:   {"role-perso-modal", argNone},

	VerbDeploy:        {"role-deploy", argNone},
	VerbDeployChannel: {"role-deploy-channel", argNone},
	VerbDeployUpdate:  {"role-deploy-update", argNone},

	VerbLogs:              {"logs", argNone},
	VerbLogsChannel:       {"logs-channel", argNone},
	VerbLogsCategoryRoles: {"logs-cat-roles", argNone},
	VerbLogsCategoryRgpd:  {"logs-cat-rgpd", argNone},
	VerbLogsCategoryAdmin: {"logs-cat-admin", argNone},
	VerbLogsToggleAll:     {"logs-toggle-all", argNone},
	VerbLogsVisual:        {"logs-visual-toggle", argNone},

	VerbAdminMenu:         {"admin-menu", argNone},
	VerbAdminPage:         {"admin-page", argPage},
	VerbAdminBack:         {"admin-back", argNone},
	VerbAdminAdd:          {"admin-add", argNone},
	VerbAdminAddUser:      {"admin-add-user", argNone},
	VerbAdminAddRole:      {"admin-add-role", argNone},
	VerbAdminRemove:       {"admin-remove", argNone},
	VerbAdminRemovePage:   {"admin-remove-page", argPage},
	VerbAdminRemoveSelect: {"admin-remove-select", argNone},
}

var verbsByName = func() map[string]Verb {
	m := make(map[string]Verb, len(verbSpecs))
	for v, spec := range verbSpecs {
		m[spec.name] = v
	}
	return m
}()

// String returns the custom id segment of v.
func (v Verb) String() string {
	if spec, ok := verbSpecs[v]; ok {
		return spec.name
	}
	return "unknown"
}

// OwnerOnly reports whether only the guild owner may trigger v.
func (v Verb) OwnerOnly() bool {
	switch v {
	case VerbAdminAdd, VerbAdminAddUser, VerbAdminAddRole, VerbAdminRemove, VerbAdminRemovePage, VerbAdminRemoveSelect:
		return true
	}
	return false
}

// OpensModal reports whether v answers with a modal instead of a panel update.
func (v Verb) OpensModal() bool {
	switch v {
	case VerbRoleAddSelect, VerbRoleEditTexts, VerbPersoTexts:
		return true
	}
	return false
}

// Action is a decoded custom id.
type Action struct {
	Verb Verb
	// Arg is the entry id or role id carried by the custom id.
	Arg string
	// Page is set for pagination verbs; it may be out of range.
	Page int
}

// ParseAction decodes "config:<verb>[:<arg>]".
func ParseAction(customID string) (Action, error) {
	rest, ok := strings.CutPrefix(customID, Prefix+":")
	if !ok {
		return Action{}, fmt.Errorf("custom id %q is not in the %s namespace", customID, Prefix)
	}
	name, arg, hasArg := strings.Cut(rest, ":")
	verb, ok := verbsByName[name]
	if !ok {
		return Action{}, fmt.Errorf("unknown config verb %q", name)
	}

	spec := verbSpecs[verb]
	switch spec.arg {
	case argNone:
		if hasArg {
			return Action{}, fmt.Errorf("config verb %q takes no argument", name)
		}
		return Action{Verb: verb}, nil
	case argPage:
		page, err := strconv.Atoi(arg)
		if !hasArg || err != nil {
			return Action{}, fmt.Errorf("config verb %q needs a page number, got %q", name, arg)
		}
		return Action{Verb: verb, Page: page}, nil
	default:
		if !hasArg || strings.TrimSpace(arg) == "" {
			return Action{}, fmt.Errorf("config verb %q needs an argument", name)
		}
		return Action{Verb: verb, Arg: arg}, nil
	}
}

// CustomID encodes a as a custom id.
func (a Action) CustomID() string {
	spec := verbSpecs[a.Verb]
	id := Prefix + ":" + spec.name
	switch spec.arg {
	case argPage:
		id += ":" + strconv.Itoa(a.Page)
	case argEntry, argRole:
		id += ":" + a.Arg
	}
	return id
}

// ID returns the custom id of an argument-less verb.
func ID(v Verb) string {
	return Action{Verb: v}.CustomID()
}

// IDWith returns the custom id of a verb carrying an entry or role id.
func IDWith(v Verb, arg string) string {
	return Action{Verb: v, Arg: arg}.CustomID()
}

// PageID returns the custom id of a pagination verb.
func PageID(v Verb, page int) string {
	return Action{Verb: v, Page: page}.CustomID()
}
