package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/withholding/internal/clock"
	"github.com/smallbiznis/withholding/internal/config"
	"github.com/smallbiznis/withholding/internal/document"
	"github.com/smallbiznis/withholding/internal/logger"
	"github.com/smallbiznis/withholding/internal/migration"
	"github.com/smallbiznis/withholding/internal/partner"
	"github.com/smallbiznis/withholding/internal/paymentreference"
	"github.com/smallbiznis/withholding/internal/pos"
	"github.com/smallbiznis/withholding/internal/ratelist"
	"github.com/smallbiznis/withholding/internal/server"
	"github.com/smallbiznis/withholding/internal/tax"
	"github.com/smallbiznis/withholding/internal/withholding"
	"github.com/smallbiznis/withholding/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		document.Module,
		partner.Module,
		ratelist.Module,
		tax.Module,
		pos.Module,
		paymentreference.Module,
		withholding.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		panic(err)
	}
	return node
}
