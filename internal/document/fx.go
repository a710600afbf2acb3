package document

import (
	"github.com/smallbiznis/withholding/internal/document/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(repository.NewRepository),
)
