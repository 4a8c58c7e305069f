package sync

import (
	"fmt"
	"regexp"
	"strings"

	"kafka-governance/internal/model"
)

// ValidatePolicy checks a topic against its environment's naming and sizing
// policy. It returns the concatenated violation message (empty = valid) and
// a validity flag. An environment without a configured policy accepts every
// topic.
func ValidatePolicy(name string, partitions, replicationFactor int, env *model.Environment) (string, bool) {
	if env == nil || !env.PolicyEnabled {
		return "", true
	}

	var b strings.Builder

	if env.ApplyRegex {
		// regex mode skips the prefix/suffix checks entirely
		if env.TopicRegex != "" && !regexMatches(env.TopicRegex, name) {
			fmt.Fprintf(&b, "Topic name %s does not match regex %s. ", name, env.TopicRegex)
		}
	} else {
		if env.TopicPrefix != "" && !strings.HasPrefix(name, env.TopicPrefix) {
			fmt.Fprintf(&b, "Topic name %s does not start with prefix %s. ", name, env.TopicPrefix)
		}
		if env.TopicSuffix != "" && !strings.HasSuffix(name, env.TopicSuffix) {
			fmt.Fprintf(&b, "Topic name %s does not end with suffix %s. ", name, env.TopicSuffix)
		}
	}

	if replicationFactor > env.MaxReplicationFactor {
		fmt.Fprintf(&b, "Replication factor %d exceeds maximum %d. ", replicationFactor, env.MaxReplicationFactor)
	}
	if partitions <= 0 {
		fmt.Fprintf(&b, "Partition count is not set, maximum is %d. ", env.MaxPartitions)
	} else if partitions > env.MaxPartitions {
		fmt.Fprintf(&b, "Partition count %d exceeds maximum %d. ", partitions, env.MaxPartitions)
	}

	status := b.String()
	return status, status == ""
}

func regexMatches(expr, name string) bool {
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		// an unparseable policy regex rejects nothing
		return true
	}
	return re.MatchString(name)
}
