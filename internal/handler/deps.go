package handler

import (
	"linechat/internal/app/chat"
	"linechat/internal/configs"
)

// AppDeps carries what the gateway handlers need.
type AppDeps struct {
	Manager *chat.Manager
	Config  *configs.AppConfig
}
