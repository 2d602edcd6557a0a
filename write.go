package pbi18n

import (
	"context"
	"errors"
)

// Create writes a missing key to the collection of every language in
// languages, one language at a time. value defaults to key. The collection
// is provisioned on first use. The cache is not updated; the new key shows
// up after the next refresh.
func (b *Backend) Create(ctx context.Context, languages []string, namespace, key string, value ...string) error {
	v := key
	if len(value) > 0 {
		v = value[0]
	}

	remote, err := b.remoteStore()
	if err != nil {
		return err
	}

	opts := b.Options()
	schemas := opts.CollectionSchemaCreator
	if schemas == nil {
		schemas = DefaultSchemaCreator
	}
	records := opts.ResourceDataCreator
	if records == nil {
		records = DefaultRecordCreator
	}

	for _, language := range languages {
		collection := CollectionName(language, namespace)

		if err := b.ensureSession(ctx, remote, opts); err != nil {
			return err
		}

		if err := b.ensureSchema(ctx, remote, schemas, collection, languages, namespace, key, v); err != nil {
			b.log.Error(ctx, "provisioning collection failed", "collection", collection, "error", err)
			return err
		}

		data := records.CreateRecord(language, namespace, key, b.prefill(ctx, language, namespace, key, v))
		if _, err := remote.CreateRecord(ctx, collection, data); err != nil {
			b.log.Error(ctx, "writing missing key failed", "collection", collection, "key", key, "error", err)
			return err
		}

		b.log.Info(ctx, "missing key written", "collection", collection, "key", key)
	}

	return nil
}

// ensureSession authenticates unless the remote already holds a valid session.
func (b *Backend) ensureSession(ctx context.Context, remote RemoteStore, opts Options) error {
	if !opts.hasCredentials() {
		return &ConfigError{Field: "AdminName", Message: "admin name and password are required for writes"}
	}

	b.authMu.Lock()
	defer b.authMu.Unlock()

	if remote.SessionValid() {
		return nil
	}

	b.log.Debug(ctx, "authenticating", "admin", opts.AdminName)
	if err := remote.Authenticate(ctx, opts.AdminName, opts.AdminPassword); err != nil {
		b.log.Error(ctx, "admin authentication failed", "admin", opts.AdminName, "error", err)
		return err
	}
	return nil
}

// ensureSchema creates collection when it does not exist. Losing a creation
// race to another writer is not an error.
func (b *Backend) ensureSchema(ctx context.Context, remote RemoteStore, schemas SchemaCreator, collection string, languages []string, namespace, key, value string) error {
	exists, err := remote.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	schema := schemas.CreateSchema(languages, namespace, key, value)
	if _, err := remote.CreateCollection(ctx, collection, schema); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			b.log.Debug(ctx, "collection already created by another writer", "collection", collection)
			return nil
		}
		return err
	}

	b.log.Info(ctx, "collection provisioned", "collection", collection, "fields", len(schema))
	return nil
}
