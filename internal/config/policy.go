package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvitePolicy controls invite issuance defaults and session lifetime.
// Operators tune these per deployment without a rebuild.
type InvitePolicy struct {
	DefaultMaxUses    int `mapstructure:"defaultMaxUses"`
	InviteExpiryDays  int `mapstructure:"inviteExpiryDays"`
	SessionTTLMinutes int `mapstructure:"sessionTTLMinutes"`
}

func (p InvitePolicy) SessionTTL() time.Duration {
	return time.Duration(p.SessionTTLMinutes) * time.Minute
}

func DefaultInvitePolicy() InvitePolicy {
	return InvitePolicy{
		DefaultMaxUses:    3,
		InviteExpiryDays:  7,
		SessionTTLMinutes: 120,
	}
}

type InvitePolicyHolder struct {
	current atomic.Value // holds InvitePolicy
}

// NewInvitePolicyHolder reads invite policy from an optional config file
// and keeps it hot-reloadable.
func NewInvitePolicyHolder() (*InvitePolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("invites")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/candor")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CANDOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvitePolicy()
	v.SetDefault("invites.defaultMaxUses", defaults.DefaultMaxUses)
	v.SetDefault("invites.inviteExpiryDays", defaults.InviteExpiryDays)
	v.SetDefault("invites.sessionTTLMinutes", defaults.SessionTTLMinutes)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy InvitePolicy
	if err := v.UnmarshalKey("invites", &policy); err != nil {
		return nil, err
	}
	if err := validateInvitePolicy(policy); err != nil {
		return nil, err
	}

	holder := &InvitePolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvitePolicy
		if err := v.UnmarshalKey("invites", &updated); err != nil {
			log.Printf("[invite-policy] reload failed: %v", err)
			return
		}
		if err := validateInvitePolicy(updated); err != nil {
			log.Printf("[invite-policy] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invite-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *InvitePolicyHolder) Get() InvitePolicy {
	return h.current.Load().(InvitePolicy)
}

// NewStaticInvitePolicyHolder pins a policy, used by tests.
func NewStaticInvitePolicyHolder(policy InvitePolicy) *InvitePolicyHolder {
	holder := &InvitePolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func validateInvitePolicy(policy InvitePolicy) error {
	if policy.DefaultMaxUses <= 0 {
		return errors.New("invites.defaultMaxUses must be positive")
	}
	if policy.InviteExpiryDays <= 0 {
		return errors.New("invites.inviteExpiryDays must be positive")
	}
	if policy.SessionTTLMinutes <= 0 {
		return errors.New("invites.sessionTTLMinutes must be positive")
	}
	return nil
}
