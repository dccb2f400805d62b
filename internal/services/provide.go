package services

import (
	"github.com/samber/do"
)

// Provide registers every service on the injector. Infrastructure (databases,
// redis clients, cache, redsync, chain, envs) must be provided by the caller.
func Provide(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceWallet, error) {
		return NewServiceWallet(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceBalance, error) {
		return NewServiceBalance(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceClaim, error) {
		return NewServiceClaim(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceHistory, error) {
		return NewServiceHistory(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceTask, error) {
		return NewServiceTask(i)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceReferral, error) {
		return NewServiceReferral(i)
	})
}
