package withholding

import (
	"github.com/smallbiznis/withholding/internal/withholding/repository"
	"github.com/smallbiznis/withholding/internal/withholding/service"
	"go.uber.org/fx"
)

var Module = fx.Module("withholding",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewMunicipalEvaluator),
	fx.Provide(service.NewPOSVATEvaluator),
	fx.Provide(service.NewService),
)
