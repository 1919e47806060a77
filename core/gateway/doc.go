// Package gateway builds the storage client used by every command.
//
// Connect picks the driver named by storage.driver, then verifies the
// credentials and endpoint with a ListBuckets call. Any failure is logged and
// reported as a storage.Error of kind Connection; the returned client is nil
// in that case and callers must not use it.
//
// # Usage
//
//	client, err := gateway.Connect(ctx, cfg.Storage, log)
//	if err != nil {
//	    return fmt.Errorf("failed to initialize storage client: %w", err)
//	}
package gateway
