package flowruns

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "copper", "cosmic",
	"crimson", "daring", "eager", "fearless", "gentle", "glossy",
	"golden", "hidden", "jolly", "keen", "lively", "lucky", "mellow",
	"nimble", "noble", "patient", "quiet", "radiant", "rapid", "rustic",
	"silent", "sleek", "spirited", "stately", "swift", "tranquil",
	"vivid", "wandering", "witty", "zealous",
}

var animals = []string{
	"alpaca", "badger", "bison", "capybara", "caracal", "cormorant",
	"coyote", "dingo", "egret", "falcon", "gecko", "heron", "ibex",
	"jackal", "kestrel", "lemur", "lynx", "macaw", "mantis", "marmot",
	"narwhal", "ocelot", "osprey", "otter", "pelican", "puffin",
	"quokka", "raccoon", "serval", "tapir", "toucan", "viper",
	"wallaby", "wombat", "yak", "zebu",
}

// GenerateName produces a random adjective-animal run name such as
// "brisk-otter". Names are decorative and carry no uniqueness guarantee.
func GenerateName() string {
	return fmt.Sprintf(
		"%s-%s",
		adjectives[rand.IntN(len(adjectives))],
		animals[rand.IntN(len(animals))],
	)
}
