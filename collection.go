package pbi18n

// CollectionName returns the PocketBase collection holding the resources of
// namespace in language. Names stay distinct as long as neither token
// contains an underscore; this is not checked.
func CollectionName(language, namespace string) string {
	return language + "_" + namespace
}
