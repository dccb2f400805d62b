package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	tele "gopkg.in/telebot.v3"

	"trezzy/internal/bot"
)

func getContextMenu(context tele.Context) (*bot.Menu, error) {
	contextValue := context.Get(contextMenu)
	if contextValue == nil {
		return nil, fmt.Errorf("menu not found")
	}

	result, ok := contextValue.(*bot.Menu)
	if !ok {
		return nil, fmt.Errorf("menu not valid")
	}

	return result, nil
}

func getContextRedis(context tele.Context) (redis.UniversalClient, error) {
	contextValue := context.Get(contextRedis)
	if contextValue == nil {
		return nil, fmt.Errorf("redis not found")
	}

	result, ok := contextValue.(redis.UniversalClient)
	if !ok {
		return nil, fmt.Errorf("redis not valid")
	}

	return result, nil
}

func getContextSecrets(context tele.Context) (*secretKeeper, error) {
	contextValue := context.Get(contextSecrets)
	if contextValue == nil {
		return nil, fmt.Errorf("secret keeper not found")
	}

	result, ok := contextValue.(*secretKeeper)
	if !ok {
		return nil, fmt.Errorf("secret keeper not valid")
	}

	return result, nil
}
