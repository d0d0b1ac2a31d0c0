package stub

import "github.com/absurdly-visual/client-go/internal/game"

// Built-in starter decks so the stub runs with zero external content. The
// production authority loads real packs; these only need to be plentiful
// enough for a few rounds with a full lobby.

var blackDeck = []game.PromptCard{
	{ID: "b1", Text: "The museum's newest exhibit: a live recreation of _.", Pack: "starter", Pick: 1},
	{ID: "b2", Text: "My therapist says my fear of _ is perfectly rational.", Pack: "starter", Pick: 1},
	{ID: "b3", Text: "Scientists confirm the moon landing was staged to cover up _.", Pack: "starter", Pick: 1},
	{ID: "b4", Text: "Step 1: _. Step 2: _. Step 3: profit.", Pack: "starter", Pick: 2},
	{ID: "b5", Text: "The city council has voted to replace all streetlights with _.", Pack: "starter", Pick: 1},
	{ID: "b6", Text: "Nothing ruins a wedding faster than _.", Pack: "starter", Pick: 1},
	{ID: "b7", Text: "This year's hottest startup: Uber, but for _.", Pack: "starter", Pick: 1},
	{ID: "b8", Text: "In hindsight, combining _ with _ was a mistake.", Pack: "starter", Pick: 2},
	{ID: "b9", Text: "The weather forecast for tomorrow: cloudy with a chance of _.", Pack: "starter", Pick: 1},
	{ID: "b10", Text: "Grandma's secret ingredient turned out to be _.", Pack: "starter", Pick: 1},
}

var whiteDeck = []game.AnswerCard{
	{ID: "w1", Text: "A suspiciously confident pigeon.", Pack: "starter"},
	{ID: "w2", Text: "Forty-seven rubber ducks in a trench coat.", Pack: "starter"},
	{ID: "w3", Text: "Aggressive interpretive dance.", Pack: "starter"},
	{ID: "w4", Text: "The world's largest ball of twine.", Pack: "starter"},
	{ID: "w5", Text: "An apology written entirely in emoji.", Pack: "starter"},
	{ID: "w6", Text: "A lifetime supply of lukewarm soup.", Pack: "starter"},
	{ID: "w7", Text: "My neighbor's lawn flamingo collection.", Pack: "starter"},
	{ID: "w8", Text: "A motivational speech from a fax machine.", Pack: "starter"},
	{ID: "w9", Text: "Glitter. So much glitter.", Pack: "starter"},
	{ID: "w10", Text: "A heated argument with a GPS.", Pack: "starter"},
	{ID: "w11", Text: "Sentient elevator music.", Pack: "starter"},
	{ID: "w12", Text: "The fifth law of robotics.", Pack: "starter"},
	{ID: "w13", Text: "A raccoon with a business plan.", Pack: "starter"},
	{ID: "w14", Text: "Unsolicited bagpipe lessons.", Pack: "starter"},
	{ID: "w15", Text: "A conspiracy board made of spaghetti.", Pack: "starter"},
	{ID: "w16", Text: "The printer that finally works.", Pack: "starter"},
	{ID: "w17", Text: "An extremely polite heist.", Pack: "starter"},
	{ID: "w18", Text: "Decorative gravel.", Pack: "starter"},
	{ID: "w19", Text: "A weather balloon full of bees.", Pack: "starter"},
	{ID: "w20", Text: "The concept of Tuesday.", Pack: "starter"},
	{ID: "w21", Text: "A knighted houseplant.", Pack: "starter"},
	{ID: "w22", Text: "Freelance cloud inspection.", Pack: "starter"},
	{ID: "w23", Text: "An alarmingly detailed diorama.", Pack: "starter"},
	{ID: "w24", Text: "The backup kazoo.", Pack: "starter"},
	{ID: "w25", Text: "A parallel-parked zeppelin.", Pack: "starter"},
	{ID: "w26", Text: "Industrial-strength nostalgia.", Pack: "starter"},
	{ID: "w27", Text: "A very small horse with big ideas.", Pack: "starter"},
	{ID: "w28", Text: "The minutes of last month's secret meeting.", Pack: "starter"},
}

// BlackCards returns a copy of the built-in prompt deck.
func BlackCards() []game.PromptCard {
	return append([]game.PromptCard(nil), blackDeck...)
}

// WhiteCards returns a copy of the built-in answer deck.
func WhiteCards() []game.AnswerCard {
	return append([]game.AnswerCard(nil), whiteDeck...)
}
