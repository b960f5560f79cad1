package wikiparse

import (
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func TestParsersAreTotal(t *testing.T) {
	// Every registered parser must hand back a usable record for a page with
	// no extractable content: correct type tag, the title as name, and at
	// least one warning explaining what went wrong.
	for _, pt := range RegisteredTypes() {
		pt := pt
		t.Run(string(pt), func(t *testing.T) {
			doc := mustDoc(t, "<html><body></body></html>")
			rec := safeParse(ParserFor(pt), doc, "Empty Page", pt)
			if rec == nil {
				t.Fatal("parser returned nil record")
			}
			if rec.Type != string(pt) {
				t.Errorf("record type = %q, want %q", rec.Type, pt)
			}
			if rec.Name != "Empty Page" {
				t.Errorf("record name = %q, want Empty Page", rec.Name)
			}
			if len(rec.Warnings) == 0 {
				t.Error("empty page produced no warnings")
			}
		})
	}
}

func TestExtractDispatchesToGenericFallback(t *testing.T) {
	rec, err := Extract("<p>Some page.</p>", "Mystery Thing", nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if rec.Type != string(TypeGeneric) {
		t.Errorf("record type = %q, want %q", rec.Type, TypeGeneric)
	}
}

const cropHTML = `
<table class="infobox">
<tr><th>Season</th><td>Spring</td></tr>
<tr><th>Growth Time</th><td>8 days</td></tr>
<tr><th>Regrowth Time</th><td>4 days</td></tr>
<tr><th>Seed</th><td>Strawberry Seeds</td></tr>
</table>
<table>
<tr><th>Quality</th><th>Sell Price</th></tr>
<tr><td>Base</td><td>120g</td></tr>
<tr><td>Gold</td><td>180g</td></tr>
</table>`

func TestCropParser(t *testing.T) {
	rec := cropParser{}.Parse(mustDoc(t, cropHTML), "Strawberry")

	if got, _ := rec.Field("growth_time"); got != 8 {
		t.Errorf("growth_time = %v, want 8", got)
	}
	if got, _ := rec.Field("seasons"); !reflect.DeepEqual(got, []string{"Spring"}) {
		t.Errorf("seasons = %v, want [Spring]", got)
	}
	if got, _ := rec.Field("regrowth_time"); got != 4 {
		t.Errorf("regrowth_time = %v, want 4", got)
	}
	if got, _ := rec.Field("seed"); got != "Strawberry Seeds" {
		t.Errorf("seed = %v, want Strawberry Seeds", got)
	}
	prices, _ := rec.Field("sell_prices")
	want := map[string]int{"base": 120, "gold": 180}
	if !reflect.DeepEqual(prices, want) {
		t.Errorf("sell_prices = %v, want %v", prices, want)
	}
	if len(rec.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", rec.Warnings)
	}
}

func TestCropParserBadGrowthTimeWarns(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Season</th><td>Spring</td></tr>
<tr><th>Growth Time</th><td>unknown</td></tr>
</table>`
	rec := cropParser{}.Parse(mustDoc(t, html), "Odd Crop")

	if _, ok := rec.Field("growth_time"); ok {
		t.Error("non-numeric growth time must not set the field")
	}
	if _, ok := rec.Field("seasons"); !ok {
		t.Error("seasons must still be extracted after a bad growth time")
	}
	if len(rec.Warnings) != 1 || !strings.Contains(rec.Warnings[0], "not numeric") {
		t.Errorf("warnings = %v, want one not-numeric warning", rec.Warnings)
	}
}

const npcHTML = `
<table class="infobox">
<tr><th>Birthday</th><td>Winter 10</td></tr>
<tr><th>Marriage</th><td>Yes</td></tr>
<tr><th>Address</th><td>24 Mountain Road</td></tr>
<tr><th>Family</th><td>Robin, Demetrius, Maru</td></tr>
</table>
<h3>Love</h3>
<p>Frozen Tear</p>
<p>Obsidian</p>
<p>Note: universal loves apply as well.</p>
<h3>Like</h3>
<p>Quartz</p>
<h3>Dislike</h3>
<p>Clay</p>
<h3>Two Hearts</h3>
<p>Enter the mountain area when Sebastian is home.</p>
<h3>Six Hearts</h3>
<p>Enter Sebastian's room.</p>`

func TestNPCParser(t *testing.T) {
	rec := npcParser{}.Parse(mustDoc(t, npcHTML), "Sebastian")

	if got, _ := rec.Field("birthday"); got != "Winter 10" {
		t.Errorf("birthday = %v, want Winter 10", got)
	}
	if got, _ := rec.Field("marriageable"); got != true {
		t.Errorf("marriageable = %v, want true", got)
	}
	if got, _ := rec.Field("family"); !reflect.DeepEqual(got, []string{"Robin", "Demetrius", "Maru"}) {
		t.Errorf("family = %v", got)
	}
	if got, _ := rec.Field("loved_gifts"); !reflect.DeepEqual(got, []string{"Frozen Tear", "Obsidian"}) {
		t.Errorf("loved_gifts = %v, want note filtered out", got)
	}
	if got, _ := rec.Field("liked_gifts"); !reflect.DeepEqual(got, []string{"Quartz"}) {
		t.Errorf("liked_gifts = %v, want [Quartz]", got)
	}
	if got, _ := rec.Field("disliked_gifts"); !reflect.DeepEqual(got, []string{"Clay"}) {
		t.Errorf("disliked_gifts = %v, want [Clay] (Like prefix must not capture Dislike)", got)
	}
	if _, ok := rec.Field("hated_gifts"); ok {
		t.Error("hated_gifts set with no Hate section on the page")
	}

	events, _ := rec.Field("heart_events")
	list, ok := events.([]map[string]any)
	if !ok || len(list) != 2 {
		t.Fatalf("heart_events = %v, want 2 events", events)
	}
	if list[0]["heart_level"] != 2 || list[1]["heart_level"] != 6 {
		t.Errorf("heart levels = %v, %v, want 2 and 6", list[0]["heart_level"], list[1]["heart_level"])
	}
	if trigger := list[0]["trigger"]; trigger != "Enter the mountain area when Sebastian is home." {
		t.Errorf("trigger = %v", trigger)
	}
}

func TestRecipeParserCrafting(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Source</th><td>Crafting Level 2</td></tr>
<tr><th>Ingredients</th><td>Wood(50)Coal(1)</td></tr>
</table>`
	rec := recipeParser{}.Parse(mustDoc(t, html), "Furnace")

	if got, _ := rec.Field("recipe_type"); got != "crafting" {
		t.Errorf("recipe_type = %v, want crafting", got)
	}
	ingredients, _ := rec.Field("ingredients")
	list, ok := ingredients.([]map[string]any)
	if !ok || len(list) != 2 {
		t.Fatalf("ingredients = %v, want 2 entries", ingredients)
	}
	if list[0]["item"] != "Wood" || list[0]["quantity"] != 50 {
		t.Errorf("first ingredient = %v, want Wood x50", list[0])
	}
	if list[1]["item"] != "Coal" || list[1]["quantity"] != 1 {
		t.Errorf("second ingredient = %v, want Coal x1", list[1])
	}
}

func TestRecipeParserCooking(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Recipe Source</th><td>The Queen of Sauce</td></tr>
<tr><th>Ingredients</th><td>Egg(1)</td></tr>
<tr><th>Energy</th><td>7533</td></tr>
<tr><th>Sell Price</th><td>Cannot be sold</td></tr>
</table>`
	rec := recipeParser{}.Parse(mustDoc(t, html), "Fried Egg")

	if got, _ := rec.Field("unlock_source"); got != "The Queen of Sauce" {
		t.Errorf("unlock_source = %v", got)
	}
	if got, _ := rec.Field("energy"); got != 75 {
		t.Errorf("energy = %v, want 75 (run-together cell split at midpoint)", got)
	}
	if got, _ := rec.Field("health"); got != 33 {
		t.Errorf("health = %v, want 33", got)
	}
	if _, ok := rec.Field("sell_price"); ok {
		t.Error("unsellable recipe must not carry a sell_price")
	}
}

const bundleHTML = `
<table class="infobox">
<tr><th>Room</th><td>Crafts Room</td></tr>
<tr><th>Reward</th><td>30 Spring Seeds</td></tr>
</table>
<p>Any 4 of the following items:</p>
<table>
<tr><th>Item</th><th>Quantity</th></tr>
<tr><td>Wild Horseradish</td><td>1</td></tr>
<tr><td>Daffodil</td><td>1</td></tr>
<tr><td>Parsnip</td><td>5 Gold Quality</td></tr>
</table>`

func TestBundleParser(t *testing.T) {
	rec := bundleParser{}.Parse(mustDoc(t, bundleHTML), "Spring Foraging Bundle")

	if got, _ := rec.Field("room"); got != "Crafts Room" {
		t.Errorf("room = %v", got)
	}
	if got, _ := rec.Field("reward"); got != "30 Spring Seeds" {
		t.Errorf("reward = %v", got)
	}
	if got, _ := rec.Field("slots"); got != 4 {
		t.Errorf("slots = %v, want 4", got)
	}
	requirements, _ := rec.Field("requirements")
	list, ok := requirements.([]map[string]any)
	if !ok || len(list) != 3 {
		t.Fatalf("requirements = %v, want 3 entries", requirements)
	}
	if list[0]["item"] != "Wild Horseradish" || list[0]["quantity"] != 1 {
		t.Errorf("first requirement = %v", list[0])
	}
	if list[2]["quantity"] != 5 || list[2]["quality"] != "gold" {
		t.Errorf("Parsnip requirement = %v, want quantity 5 gold quality", list[2])
	}
}

func TestSkillParser(t *testing.T) {
	html := `<table>
<tr><th>Level</th><th>Unlocks</th></tr>
<tr><td>1</td><td>Scarecrow, Basic Fertilizer</td></tr>
<tr><td>5</td><td>Rancher or Tiller</td></tr>
<tr><td>10</td><td>Artisan or Agriculturist</td></tr>
</table>`
	rec := skillParser{}.Parse(mustDoc(t, html), "Farming")

	levels, _ := rec.Field("levels")
	lvls, ok := levels.([]map[string]any)
	if !ok || len(lvls) != 1 {
		t.Fatalf("levels = %v, want the single plain-unlock row", levels)
	}
	if lvls[0]["level"] != 1 {
		t.Errorf("level = %v, want 1", lvls[0]["level"])
	}
	if got := lvls[0]["unlocks"]; !reflect.DeepEqual(got, []string{"Scarecrow", "Basic Fertilizer"}) {
		t.Errorf("unlocks = %v", got)
	}

	professions, _ := rec.Field("professions")
	profs, ok := professions.(map[string][]string)
	if !ok {
		t.Fatalf("professions = %v (%T)", professions, professions)
	}
	if !reflect.DeepEqual(profs["5"], []string{"Rancher", "Tiller"}) {
		t.Errorf("level 5 professions = %v", profs["5"])
	}
	if !reflect.DeepEqual(profs["10"], []string{"Artisan", "Agriculturist"}) {
		t.Errorf("level 10 professions = %v", profs["10"])
	}
}

func TestFishParser(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Location</th><td>Ocean</td></tr>
<tr><th>Season</th><td>Summer, Winter</td></tr>
<tr><th>Time</th><td>Anytime</td></tr>
<tr><th>Weather</th><td>Any</td></tr>
<tr><th>Difficulty</th><td>80 Floater</td></tr>
<tr><th>Sell Price</th><td>200g</td></tr>
</table>`
	rec := fishParser{}.Parse(mustDoc(t, html), "Pufferfish")

	if got, _ := rec.Field("locations"); !reflect.DeepEqual(got, []string{"Ocean"}) {
		t.Errorf("locations = %v", got)
	}
	if got, _ := rec.Field("seasons"); !reflect.DeepEqual(got, []string{"Summer", "Winter"}) {
		t.Errorf("seasons = %v", got)
	}
	if got, _ := rec.Field("difficulty"); got != 80 {
		t.Errorf("difficulty = %v, want 80", got)
	}
	if got, _ := rec.Field("sell_price"); got != 200 {
		t.Errorf("sell_price = %v, want 200", got)
	}
}

func TestMonsterParser(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Base HP</th><td>24</td></tr>
<tr><th>Base Damage</th><td>5</td></tr>
<tr><th>Speed</th><td>2</td></tr>
<tr><th>Location</th><td>Mines, Secret Woods</td></tr>
<tr><th>Drops</th><td><a href="/Slime">Slime</a> (75%)<br><a href="/Sap">Sap</a> (15%)</td></tr>
</table>`
	rec := monsterParser{}.Parse(mustDoc(t, html), "Green Slime")

	if got, _ := rec.Field("base_hp"); got != 24 {
		t.Errorf("base_hp = %v, want 24", got)
	}
	if got, _ := rec.Field("base_damage"); got != 5 {
		t.Errorf("base_damage = %v, want 5", got)
	}
	if got, _ := rec.Field("locations"); !reflect.DeepEqual(got, []string{"Mines", "Secret Woods"}) {
		t.Errorf("locations = %v", got)
	}
	drops, _ := rec.Field("drops")
	list, ok := drops.([]map[string]any)
	if !ok || len(list) != 2 {
		t.Fatalf("drops = %v, want 2 entries", drops)
	}
	if list[0]["item"] != "Slime" || list[0]["chance_percent"] != 75 {
		t.Errorf("first drop = %v, want Slime at 75%%", list[0])
	}
}

func TestAnimalParser(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Building</th><td>Coop</td></tr>
<tr><th>Purchase Price</th><td>800g</td></tr>
<tr><th>Produce</th><td>Egg</td></tr>
<tr><th>Days to Mature</th><td>3</td></tr>
<tr><th>Sell Price</th><td>1,040g</td></tr>
</table>`
	rec := animalParser{}.Parse(mustDoc(t, html), "Chicken")

	if got, _ := rec.Field("building"); got != "Coop" {
		t.Errorf("building = %v", got)
	}
	if got, _ := rec.Field("purchase_price"); got != 800 {
		t.Errorf("purchase_price = %v, want 800", got)
	}
	if got, _ := rec.Field("maturity_days"); got != 3 {
		t.Errorf("maturity_days = %v, want 3", got)
	}
	if got, _ := rec.Field("sell_price"); got != 1040 {
		t.Errorf("sell_price = %v, want 1040 with the thousands comma stripped", got)
	}
}

func TestQuestParserInfobox(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Quest Type</th><td>Story</td></tr>
<tr><th>Quest Giver</th><td>Lewis</td></tr>
<tr><th>Objective</th><td>Collect 5 Parsnips</td></tr>
<tr><th>Reward</th><td>100g, 1 Friendship heart</td></tr>
<tr><th>Time Limit</th><td>7 days</td></tr>
</table>`
	rec := questParser{}.Parse(mustDoc(t, html), "Introductions")

	if got, _ := rec.Field("category"); got != "story" {
		t.Errorf("category = %v, want story", got)
	}
	if got, _ := rec.Field("giver"); got != "Lewis" {
		t.Errorf("giver = %v", got)
	}
	if got, _ := rec.Field("rewards"); !reflect.DeepEqual(got, []string{"100g", "1 Friendship heart"}) {
		t.Errorf("rewards = %v", got)
	}
	if got, _ := rec.Field("time_limit"); got != "7 days" {
		t.Errorf("time_limit = %v", got)
	}
}

func TestQuestParserAggregateList(t *testing.T) {
	html := `<table>
<tr><th>Quest Name</th><th>Trigger</th></tr>
<tr><td>Introductions</td><td>Day 1</td></tr>
<tr><td>Getting Started</td><td>Day 1</td></tr>
<tr><td>Introductions</td><td>duplicate row</td></tr>
</table>`
	rec := questParser{}.Parse(mustDoc(t, html), "Quests")

	got, _ := rec.Field("quests")
	if !reflect.DeepEqual(got, []string{"Introductions", "Getting Started"}) {
		t.Errorf("quests = %v, want deduplicated names", got)
	}
}

func TestAchievementParserAggregateList(t *testing.T) {
	html := `<table>
<tr><th>Name</th><th>Description</th><th>Points</th></tr>
<tr><td>Greenhorn</td><td>Earn 15,000g</td><td>20</td></tr>
<tr><td>Cowpoke</td><td>Earn 50,000g</td><td>40</td></tr>
</table>`
	rec := achievementParser{}.Parse(mustDoc(t, html), "Achievements")

	list, _ := rec.Field("achievements")
	entries, ok := list.([]map[string]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("achievements = %v, want 2 entries", list)
	}
	if entries[0]["name"] != "Greenhorn" || entries[0]["points"] != 20 {
		t.Errorf("first achievement = %v", entries[0])
	}
}

func TestCollectionParser(t *testing.T) {
	html := `<table>
<tr><th>Name</th><th>Description</th><th>Location</th><th>Sell Price</th></tr>
<tr><td>Dwarf Scroll I</td><td>A yellowed scroll.</td><td>Mines floors 1-40</td><td>1g</td></tr>
<tr><td>Ancient Doll</td><td>An old doll.</td><td>Artifact spots</td><td>60g</td></tr>
</table>`
	rec := collectionParser{pageType: TypeArtifacts}.Parse(mustDoc(t, html), "Artifacts")

	if rec.Type != string(TypeArtifacts) {
		t.Errorf("record type = %q", rec.Type)
	}
	if got, _ := rec.Field("total_count"); got != 2 {
		t.Errorf("total_count = %v, want 2", got)
	}
	items, _ := rec.Field("items")
	list, ok := items.([]map[string]any)
	if !ok || len(list) != 2 {
		t.Fatalf("items = %v, want 2 entries", items)
	}
	if list[1]["name"] != "Ancient Doll" || list[1]["value"] != 60 {
		t.Errorf("second item = %v", list[1])
	}
}

func TestGenericParser(t *testing.T) {
	html := `<table class="infobox">
<tr><th>Sell Price</th><td>1,500g</td></tr>
<tr><th>Source</th><td>Mining, Fishing</td></tr>
<tr><th>Healing Effect</th><td>Inedible</td></tr>
</table>
<p>A <a href="/Battery_Pack">Battery Pack</a> stores energy for crafting.</p>`
	rec := genericParser{}.Parse(mustDoc(t, html), "Battery Pack")

	if got, _ := rec.Field("sell_price"); got != 1500 {
		t.Errorf("sell_price = %v, want 1500", got)
	}
	if got, _ := rec.Field("sources"); !reflect.DeepEqual(got, []string{"Mining", "Fishing"}) {
		t.Errorf("sources = %v", got)
	}
	if got, _ := rec.Field("healing_effect"); got != "Inedible" {
		t.Errorf("healing_effect = %v, want raw key/value capture", got)
	}
	desc, _ := rec.Field("description")
	s, ok := desc.(string)
	if !ok || !strings.Contains(s, "stores energy") {
		t.Errorf("description = %v, want the first paragraph", desc)
	}
}

func TestParseHelpers(t *testing.T) {
	if n, ok := parseNumber("8 days"); !ok || n != 8 {
		t.Errorf("parseNumber(8 days) = %d, %v", n, ok)
	}
	if _, ok := parseNumber("None"); ok {
		t.Error("parseNumber(None) must report absence, not zero")
	}
	if n, ok := parsePrice("1,500g"); !ok || n != 1500 {
		t.Errorf("parsePrice(1,500g) = %d, %v", n, ok)
	}
	got := splitList("Spring • Summer,\nFall")
	if !reflect.DeepEqual(got, []string{"Spring", "Summer", "Fall"}) {
		t.Errorf("splitList = %v", got)
	}
}
