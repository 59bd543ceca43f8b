package files

// CurrentSchemaVersion is stamped on every saved document.
const CurrentSchemaVersion = 7

// rawDocument is a guild document as decoded from disk, before typing.
type rawDocument map[string]any

// MigrationEnv supplies the impure inputs a migration step needs.
type MigrationEnv struct {
	NewID func() string
}

type migrationStep struct {
	version int
	name    string
	apply   func(doc rawDocument, env MigrationEnv) bool
}

// migrations run in order; a step applies when its version exceeds the stored one.
var migrations = []migrationStep{
	{1, "entry ids", migrateEntryIDs},
	{2, "log channel", migrateLogChannel},
	{3, "split log flags", migrateLogCategories},
	{4, "visual logs", migrateLogVisual},
	{5, "layout", migrateLayout},
	{6, "dividers", migrateDividers},
	{7, "admin sets", migrateAdminSets},
}

// Migrate upgrades doc to CurrentSchemaVersion and reports whether anything
// changed, the version bump included. A current document is left untouched.
func Migrate(doc rawDocument, env MigrationEnv) bool {
	if env.NewID == nil {
		env.NewID = GenerateEntryID
	}
	stored := documentVersion(doc)
	if stored >= CurrentSchemaVersion {
		return false
	}
	for _, step := range migrations {
		if step.version <= stored {
			continue
		}
		step.apply(doc, env)
	}
	doc["schemaVersion"] = CurrentSchemaVersion
	return true
}

func documentVersion(doc rawDocument) int {
	switch v := doc["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func migrateEntryIDs(doc rawDocument, env MigrationEnv) bool {
	entries, ok := doc["entries"].([]any)
	if !ok {
		return false
	}
	changed := false
	for _, item := range entries {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := entry["id"].(string); id != "" {
			continue
		}
		entry["id"] = env.NewID()
		changed = true
	}
	return changed
}

func migrateLogChannel(doc rawDocument, _ MigrationEnv) bool {
	return setDefault(doc, "logChannelId", "")
}

// migrateLogCategories expands the single legacy logEnabled flag. Each category
// inherits it unless the flag was explicitly false.
func migrateLogCategories(doc rawDocument, _ MigrationEnv) bool {
	changed := false
	if legacy, ok := doc["logEnabled"]; ok {
		enabled := legacy != false
		for _, key := range []string{"logRoles", "logRgpd", "logAdmin"} {
			if _, present := doc[key]; !present {
				doc[key] = enabled
			}
		}
		delete(doc, "logEnabled")
		changed = true
	}
	for _, key := range []string{"logRoles", "logRgpd", "logAdmin"} {
		if setDefault(doc, key, true) {
			changed = true
		}
	}
	return changed
}

func migrateLogVisual(doc rawDocument, _ MigrationEnv) bool {
	return setDefault(doc, "logVisual", true)
}

func migrateLayout(doc rawDocument, _ MigrationEnv) bool {
	return setDefault(doc, "layout", string(LayoutColumn))
}

func migrateDividers(doc rawDocument, _ MigrationEnv) bool {
	return setDefault(doc, "dividers", true)
}

func migrateAdminSets(doc rawDocument, _ MigrationEnv) bool {
	a := setDefault(doc, "adminUsers", []any{})
	b := setDefault(doc, "adminRoles", []any{})
	return a || b
}

// setDefault stores value under key when the key is missing or null.
func setDefault(doc rawDocument, key string, value any) bool {
	if v, ok := doc[key]; ok && v != nil {
		return false
	}
	doc[key] = value
	return true
}
