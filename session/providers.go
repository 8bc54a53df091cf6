package session

import "github.com/vetcare/vetportal/config"

func NewStore(cfg *config.Config) (Store, error) {
	return NewDiskStore(cfg.SessionDir)
}
