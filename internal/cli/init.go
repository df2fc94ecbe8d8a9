package cli

import (
	"fmt"

	"github.com/amterp/ra"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/service"
	"github.com/pasjesplank/plank/internal/store"
)

func registerInit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("init")
	cmd.SetDescription("Write a config file")

	ctx.InitBackend, _ = ra.NewString("backend").
		SetShort("b").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Storage backend: file, sqlite or s3 (default: file)").
		Register(cmd)

	ctx.InitPath, _ = ra.NewString("path").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Data directory (file) or database file (sqlite)").
		Register(cmd)

	ctx.InitBucket, _ = ra.NewString("bucket").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("S3 bucket (s3 backend)").
		Register(cmd)

	ctx.InitRegion, _ = ra.NewString("region").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("S3 region (s3 backend)").
		Register(cmd)

	ctx.InitUsed, _ = parent.RegisterCmd(cmd)
}

func runInit(opts globalOptions, backend, path, bucket, region string) {
	paths := config.DefaultPaths()
	initService := service.NewInitService(paths, store.NewConfigStore(paths))

	result, err := initService.Initialize(service.InitOptions{
		Backend: backend,
		Path:    path,
		Bucket:  bucket,
		Region:  region,
	})
	if err != nil {
		Fatal(err)
	}

	if opts.json {
		if err := printJson(result.Config); err != nil {
			Fatal(err)
		}
		return
	}

	if !result.Created {
		PrintInfo("Config already exists at %s (left unchanged)", result.ConfigPath)
		return
	}
	PrintSuccess("Wrote %s", result.ConfigPath)
	fmt.Println(LabelValue("Storage", result.Config.Storage.Backend, 8))
}
