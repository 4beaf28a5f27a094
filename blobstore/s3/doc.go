// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "runs/gaussian2d/")
//	sampler, err := nestgo.New(prior, likelihood,
//	    nestgo.WithCheckpoint(store, 500),
//	)
//
// # Features
//
//   - Multipart uploads for large checkpoints
//   - CRC32C integrity validation on upload
//   - Automatic pagination for listing
//   - Configurable prefix for keeping multiple runs in one bucket
//
// For coordinated latest-checkpoint commits across concurrent writers,
// wrap the store in a DDBCommitStore.
package s3
